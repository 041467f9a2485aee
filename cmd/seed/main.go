package main

import (
	"fmt"
	"log"
	"time"

	"github.com/abu0505/tokyo-shoes-sub000/config"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/repository"
	"github.com/abu0505/tokyo-shoes-sub000/internal/db"
	"github.com/abu0505/tokyo-shoes-sub000/pkg/util"
)

var sizes = []string{"US 7", "US 8", "US 9", "US 10", "US 11", "US 12"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := seedAdmin(); err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}
	if err := seedProducts(); err != nil {
		log.Fatal("Failed to seed products:", err)
	}
	if err := seedCoupons(); err != nil {
		log.Fatal("Failed to seed coupons:", err)
	}

	fmt.Println("Seed completed successfully!")
}

func seedAdmin() error {
	userRepo := repository.NewUserRepository(db.GetDB())

	if _, err := userRepo.FindByEmail("admin@tokyoshoes.dev"); err == nil {
		fmt.Println("Admin user already exists, skipping")
		return nil
	}

	hash, err := util.HashPassword("admin1234!")
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:        "admin@tokyoshoes.dev",
		PasswordHash: hash,
		Name:         "Store Admin",
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}

	fmt.Println("Admin user created: admin@tokyoshoes.dev")
	return nil
}

func seedProducts() error {
	var count int64
	if err := db.GetDB().Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Printf("Products already seeded (%d found), skipping\n", count)
		return nil
	}

	productRepo := repository.NewProductRepository(db.GetDB())
	variantRepo := repository.NewVariantRepository(db.GetDB())

	products := []model.Product{
		{Name: "Air Zoom Pegasus 41", Brand: "Nike", Description: "Responsive daily trainer with a full-length foam midsole.", Price: 139.99, Category: model.CategoryRunning},
		{Name: "Ultraboost Light", Brand: "Adidas", Description: "Energy-returning knit runner for long miles.", Price: 189.99, Category: model.CategoryRunning},
		{Name: "Gel-Kayano 31", Brand: "Asics", Description: "Stability runner with plush landings.", Price: 164.99, Category: model.CategoryRunning},
		{Name: "LeBron XXI", Brand: "Nike", Description: "Court shoe built for power drives and heavy minutes.", Price: 199.99, Category: model.CategoryBasketball},
		{Name: "Harden Vol. 8", Brand: "Adidas", Description: "Low-profile hoops shoe with lockdown lacing.", Price: 159.99, Category: model.CategoryBasketball},
		{Name: "Suede Classic XXI", Brand: "Puma", Description: "The archive suede icon, unchanged where it counts.", Price: 74.99, Category: model.CategoryLifestyle},
		{Name: "Classic Leather", Brand: "Reebok", Description: "Soft leather everyday sneaker.", Price: 89.99, Category: model.CategoryLifestyle},
		{Name: "574 Core", Brand: "New Balance", Description: "The do-everything heritage silhouette.", Price: 99.99, Category: model.CategoryLifestyle},
		{Name: "Old Skool", Brand: "Vans", Description: "Side-striped skate staple with a waffle outsole.", Price: 69.99, Category: model.CategorySkate},
		{Name: "Chuck 70 High", Brand: "Converse", Description: "Premium build of the original high top.", Price: 84.99, Category: model.CategorySkate},
	}

	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			return err
		}
		for j, size := range sizes {
			stock := 5 + (i+j)%20
			// Leave a few sizes sold out so reconciliation has something to find.
			if (i+j)%7 == 0 {
				stock = 0
			}
			variant := &model.ProductVariant{
				ProductID:     products[i].ID,
				Size:          size,
				StockQuantity: stock,
			}
			if err := variantRepo.Create(variant); err != nil {
				return err
			}
		}
	}

	fmt.Printf("Seeded %d products with %d sizes each\n", len(products), len(sizes))
	return nil
}

func seedCoupons() error {
	var count int64
	if err := db.GetDB().Model(&model.Coupon{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Printf("Coupons already seeded (%d found), skipping\n", count)
		return nil
	}

	couponRepo := repository.NewCouponRepository(db.GetDB())

	now := time.Now()
	nextMonth := now.AddDate(0, 1, 0)
	lastWeek := now.AddDate(0, 0, -7)
	limit100 := 100

	coupons := []model.Coupon{
		{Code: "WELCOME10", DiscountType: model.DiscountPercentage, DiscountValue: 10, StartsAt: now.AddDate(0, 0, -1), ExpiresAt: &nextMonth, IsActive: true},
		{Code: "SNEAKER25", DiscountType: model.DiscountFixed, DiscountValue: 25, StartsAt: now.AddDate(0, 0, -1), ExpiresAt: &nextMonth, UsageLimitTotal: &limit100, IsActive: true},
		{Code: "EXPIRED15", DiscountType: model.DiscountPercentage, DiscountValue: 15, StartsAt: now.AddDate(0, -1, 0), ExpiresAt: &lastWeek, IsActive: true},
	}

	for i := range coupons {
		if err := couponRepo.Create(&coupons[i]); err != nil {
			return err
		}
	}

	fmt.Printf("Seeded %d coupons\n", len(coupons))
	return nil
}
