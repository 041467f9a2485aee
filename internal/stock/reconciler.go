// Package stock verifies cart quantities against live inventory before
// checkout is allowed to proceed to payment.
package stock

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abu0505/tokyo-shoes-sub000/pkg/logger"
)

type IssueType string

const (
	IssueSoldOut      IssueType = "sold_out"
	IssueInsufficient IssueType = "insufficient"
)

// Issue describes why a cart line cannot be fulfilled as requested.
type Issue struct {
	Type      IssueType `json:"type"`
	Available int       `json:"available"`
}

// Line is one cart line to check, identified by its cart item ID.
type Line struct {
	ID        uint
	ProductID uint
	Size      string
	Quantity  int
}

// Inventory looks up the currently available quantity for a product+size
// combination. A missing inventory row reports zero availability.
type Inventory interface {
	AvailableQuantity(ctx context.Context, productID uint, size string) (int, error)
}

// Reconciler fans out one inventory lookup per distinct (product, size)
// row across the cart and joins the results. The issue map is only returned once every lookup has resolved;
// a failed lookup fails the whole pass rather than being treated as
// available stock. A pass holds no state, so retrying after a failure or a
// cart change means simply calling Reconcile again.
type Reconciler struct {
	inventory     Inventory
	lookupTimeout time.Duration
}

func NewReconciler(inventory Inventory, lookupTimeout time.Duration) *Reconciler {
	return &Reconciler{
		inventory:     inventory,
		lookupTimeout: lookupTimeout,
	}
}

type inventoryKey struct {
	productID uint
	size      string
}

// Reconcile classifies each line against current inventory. The returned
// map holds an Issue per unsatisfiable line, keyed by line ID; lines that
// can be fulfilled are absent. Lines that differ only in color share one
// inventory row, so demand is summed per (product, size) before it is
// compared against availability. Lookups for distinct rows run
// concurrently, each bounded by the configured timeout, and the caller's
// context cancels the whole pass. On error the partial results are
// discarded and must not gate checkout.
func (r *Reconciler) Reconcile(ctx context.Context, lines []Line) (map[uint]Issue, error) {
	logger.Debug("Reconciling cart against inventory", map[string]interface{}{
		"line_count": len(lines),
	})

	demand := make(map[inventoryKey]int, len(lines))
	keys := make([]inventoryKey, 0, len(lines))
	for _, line := range lines {
		key := inventoryKey{line.ProductID, line.Size}
		if _, seen := demand[key]; !seen {
			keys = append(keys, key)
		}
		demand[key] += line.Quantity
	}

	available := make([]int, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			lookupCtx := gctx
			if r.lookupTimeout > 0 {
				var cancel context.CancelFunc
				lookupCtx, cancel = context.WithTimeout(gctx, r.lookupTimeout)
				defer cancel()
			}

			qty, err := r.inventory.AvailableQuantity(lookupCtx, key.productID, key.size)
			if err != nil {
				logger.Error("Inventory lookup failed", err, map[string]interface{}{
					"product_id": key.productID,
					"size":       key.size,
				})
				return err
			}
			available[i] = qty
			return nil
		})
	}

	// Fan-in barrier: the issue map is never built from a partial pass.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	availableByKey := make(map[inventoryKey]int, len(keys))
	for i, key := range keys {
		availableByKey[key] = available[i]
	}

	issues := make(map[uint]Issue)
	for _, line := range lines {
		key := inventoryKey{line.ProductID, line.Size}
		switch avail := availableByKey[key]; {
		case avail == 0:
			issues[line.ID] = Issue{Type: IssueSoldOut, Available: 0}
		case avail < demand[key]:
			issues[line.ID] = Issue{Type: IssueInsufficient, Available: avail}
		}
	}

	logger.Info("Reconciliation pass completed", map[string]interface{}{
		"line_count":  len(lines),
		"issue_count": len(issues),
	})
	return issues, nil
}
