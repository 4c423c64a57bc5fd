package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lumenshop/storefront/internal/domain/model"
)

// CatalogFacade exposes the subset of application functionality required by the worker.
type CatalogFacade interface {
	ProductsForReconcile(ctx context.Context, limit int) ([]model.Product, error)
	RepairStockFlag(ctx context.Context, productID string, inStock bool) error
}

// StockReconciler periodically repairs in-stock flags that drifted from the
// stock count (external writers bypassing the API) and logs products running
// low, using a bounded worker pool.
type StockReconciler struct {
	facade       CatalogFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Product
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewStockReconciler constructs the reconcile worker pool.
func NewStockReconciler(facade CatalogFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *StockReconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &StockReconciler{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Product, batchSize*workers),
	}
}

// Start launches background processing.
func (r *StockReconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *StockReconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *StockReconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *StockReconciler) fetchAndDispatch(ctx context.Context) {
	products, err := r.facade.ProductsForReconcile(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("fetch products for reconcile failed", slog.String("error", err.Error()))
		return
	}
	for _, product := range products {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- product:
		}
	}
}

func (r *StockReconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case product, ok := <-r.jobs:
			if !ok {
				return
			}
			r.handleProduct(ctx, product)
		}
	}
}

func (r *StockReconciler) handleProduct(ctx context.Context, product model.Product) {
	if available := model.StockAvailable(product.Stock); product.InStock != available {
		if err := r.facade.RepairStockFlag(ctx, product.ID, available); err != nil {
			r.logger.Error("repair stock flag failed",
				slog.String("product", product.ID), slog.String("error", err.Error()))
			return
		}
		r.logger.Info("repaired stock flag",
			slog.String("product", product.ID), slog.Bool("in_stock", available))
	}

	if product.Stock > 0 && product.Stock <= product.LowStockThreshold {
		r.logger.Warn("product stock low",
			slog.String("product", product.ID),
			slog.String("sku", product.SKU),
			slog.Int("stock", product.Stock),
			slog.Int("threshold", product.LowStockThreshold))
	}
}
