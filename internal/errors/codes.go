package errors

// Error code constants returned in API responses.
// Format: CATEGORY_SPECIFIC_DETAIL. The storefront maps these to
// user-facing messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (PRODUCT_) ====================
	ProductNotFound    = "PRODUCT_NOT_FOUND"
	ProductSizeInvalid = "PRODUCT_SIZE_INVALID"
	VariantNotFound    = "VARIANT_NOT_FOUND"
	VariantExists      = "VARIANT_EXISTS"

	// ==================== Cart (CART_) ====================
	CartItemNotFound    = "CART_ITEM_NOT_FOUND"
	CartEmpty           = "CART_EMPTY"
	CartInvalidQuantity = "CART_INVALID_QUANTITY"

	// ==================== Coupons (COUPON_) ====================
	CouponNotFound          = "COUPON_NOT_FOUND"
	CouponInactive          = "COUPON_INACTIVE"
	CouponNotYetStarted     = "COUPON_NOT_YET_STARTED"
	CouponExpired           = "COUPON_EXPIRED"
	CouponUsageLimitReached = "COUPON_USAGE_LIMIT_REACHED"
	CouponCodeExists        = "COUPON_CODE_EXISTS"
	CouponInvalidValue      = "COUPON_INVALID_VALUE"
	CouponInvalidWindow     = "COUPON_INVALID_WINDOW"

	// ==================== Stock (STOCK_) ====================
	StockInsufficient      = "STOCK_INSUFFICIENT"
	StockSoldOut           = "STOCK_SOLD_OUT"
	StockCheckFailed       = "STOCK_CHECK_FAILED"
	StockIssuesOutstanding = "STOCK_ISSUES_OUTSTANDING"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound      = "ORDER_NOT_FOUND"
	OrderInvalidStatus = "ORDER_INVALID_STATUS"

	// ==================== Wishlist (WISHLIST_) ====================
	WishlistItemExists   = "WISHLIST_ITEM_EXISTS"
	WishlistItemNotFound = "WISHLIST_ITEM_NOT_FOUND"

	// ==================== Reviews (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidRating = "REVIEW_INVALID_RATING"
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
