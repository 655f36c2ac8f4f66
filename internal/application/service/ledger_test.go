package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ferreteria/ordenes-api/internal/config"
	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	"github.com/ferreteria/ordenes-api/internal/infrastructure/database"
	"github.com/ferreteria/ordenes-api/internal/infrastructure/repository"
	"github.com/ferreteria/ordenes-api/pkg/apperror"
	"github.com/ferreteria/ordenes-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testLedgerConfig() config.LedgerConfig {
	cfg := config.DefaultLedgerConfig()
	cfg.RetryBackoff = time.Millisecond
	return cfg
}

type ledger struct {
	db       *gorm.DB
	orders   *OrderService
	receipts *ReceiptService
}

func newLedger(t *testing.T, cfg config.LedgerConfig) *ledger {
	t.Helper()

	log := logger.Nop()
	db, err := database.NewDB(&config.DatabaseConfig{
		Driver:        "sqlite",
		Path:          filepath.Join(t.TempDir(), "ledger.db"),
		BusyTimeoutMS: 10000,
	}, false, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db, log))

	orderRepo := repository.NewOrderRepository(db)
	tx := repository.NewTransactor(db)
	return &ledger{
		db:       db,
		orders:   NewOrderService(orderRepo, tx, cfg, log),
		receipts: NewReceiptService(orderRepo, repository.NewReceiptRepository(db), tx, log),
	}
}

func (l *ledger) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, l.db.Model(model).Count(&n).Error)
	return n
}

func TestSubmitAndIssue(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())

	code, err := l.orders.Submit(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "OC-0001", code)

	order, err := l.orders.Get(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "Ana", order.Customer)
	assert.Equal(t, "2000.00", order.Net.StringFixed(2))
	assert.Equal(t, 2, order.ItemCount())
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Hammer", order.Items[0].Product)
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromInt(1000)))
	assert.False(t, order.CreatedAt.IsZero())

	receipt, err := l.receipts.Issue(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "BL-0001", receipt.Code)
	assert.Equal(t, "OC-0001", receipt.OrderCode)
	assert.Equal(t, 2, receipt.ItemCount)
	assert.Equal(t, "2000.00", receipt.Net.StringFixed(2))
	assert.Equal(t, "380.00", receipt.Tax.StringFixed(2))
	assert.Equal(t, "2380.00", receipt.Total.StringFixed(2))

	stored, err := l.receipts.FindByCode(ctx, "BL-0001")
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.Customer)
	assert.Equal(t, "+56912345678", stored.Phone)
	assert.Equal(t, "2380.00", stored.Total.StringFixed(2))
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}

func TestSubmitValidationStoresNothing(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())

	in := validInput()
	in.Phone = "12345"
	_, err := l.orders.Submit(ctx, in)

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Zero(t, l.count(t, &entity.Order{}))
}

func TestSubmitKeepsTrimmedPhone(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())

	in := validInput()
	in.Phone = " +56 9 1234 5678 "
	code, err := l.orders.Submit(ctx, in)
	require.NoError(t, err)

	order, err := l.orders.Get(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "+56 9 1234 5678", order.Phone)
}

func TestSubmitCodesIncrease(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())

	for i := 1; i <= 3; i++ {
		code, err := l.orders.Submit(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("OC-%04d", i), code)
	}

	next, err := l.orders.PreviewCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OC-0004", next)
}

func TestConcurrentSubmitsGetDistinctCodes(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())

	const n = 8
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes []string
		errs  []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := l.orders.Submit(ctx, validInput())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			codes = append(codes, code)
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	sort.Strings(codes)
	want := make([]string, n)
	for i := range want {
		want[i] = fmt.Sprintf("OC-%04d", i+1)
	}
	assert.Equal(t, want, codes)
}

func TestPreassignedCode(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())

	in := validInput()
	in.PreassignedCode = "OC-0005"
	code, err := l.orders.Submit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "OC-0005", code)

	// generated codes continue after the highest one in use
	code, err = l.orders.Submit(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "OC-0006", code)
}

func TestPreassignedCollisionFallsBackToGenerated(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())

	_, err := l.orders.Submit(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.PreassignedCode = "OC-0001"
	code, err := l.orders.Submit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "OC-0002", code)
	assert.EqualValues(t, 2, l.count(t, &entity.Order{}))
}

func TestCollisionAfterLastAttempt(t *testing.T) {
	ctx := context.Background()
	cfg := testLedgerConfig()
	cfg.MaxAttempts = 1
	l := newLedger(t, cfg)

	_, err := l.orders.Submit(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.PreassignedCode = "OC-0001"
	_, err = l.orders.Submit(ctx, in)
	require.Error(t, err)
	assert.True(t, apperror.IsCollision(err))
	assert.EqualValues(t, 1, l.count(t, &entity.Order{}))
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())

	for i := 0; i < 3; i++ {
		_, err := l.orders.Submit(ctx, validInput())
		require.NoError(t, err)
	}

	orders, err := l.orders.List(ctx, 0, nil)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []string{"OC-0003", "OC-0002", "OC-0001"},
		[]string{orders[0].Code, orders[1].Code, orders[2].Code})

	orders, err = l.orders.List(ctx, 2, nil)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, "OC-0003", orders[0].Code)
}

func TestListEmpty(t *testing.T) {
	l := newLedger(t, testLedgerConfig())

	orders, err := l.orders.List(context.Background(), 10, nil)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestListDefaultLimit(t *testing.T) {
	ctx := context.Background()
	cfg := testLedgerConfig()
	cfg.DefaultListLimit = 2
	l := newLedger(t, cfg)

	for i := 0; i < 3; i++ {
		_, err := l.orders.Submit(ctx, validInput())
		require.NoError(t, err)
	}

	orders, err := l.orders.List(ctx, -1, nil)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestListByOwner(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())

	alice, bob := uint(1), uint(2)
	for _, owner := range []*uint{&alice, &bob, &alice, nil} {
		in := validInput()
		in.OwnerID = owner
		_, err := l.orders.Submit(ctx, in)
		require.NoError(t, err)
	}

	// alice's two orders plus the unowned one, never bob's
	orders, err := l.orders.List(ctx, 0, &alice)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for _, o := range orders {
		if o.OwnerID != nil {
			assert.Equal(t, alice, *o.OwnerID)
		}
	}
	assert.Nil(t, orders[0].OwnerID)

	orders, err = l.orders.List(ctx, 0, &bob)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = l.orders.List(ctx, 0, nil)
	require.NoError(t, err)
	assert.Len(t, orders, 4)
}

func TestGetUnknownOrder(t *testing.T) {
	l := newLedger(t, testLedgerConfig())

	_, err := l.orders.Get(context.Background(), "OC-0042")
	assert.True(t, apperror.IsNotFound(err))
}

func TestIssueUnknownOrder(t *testing.T) {
	l := newLedger(t, testLedgerConfig())

	receipt, err := l.receipts.Issue(context.Background(), "OC-9999")
	require.Error(t, err)
	assert.Nil(t, receipt)
	assert.True(t, apperror.IsNotFound(err))
	assert.Zero(t, l.count(t, &entity.Receipt{}))
}

func TestIssueTwiceAndFindByOrder(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())

	first, err := l.orders.Submit(ctx, validInput())
	require.NoError(t, err)
	second, err := l.orders.Submit(ctx, validInput())
	require.NoError(t, err)

	_, err = l.receipts.Issue(ctx, first)
	require.NoError(t, err)
	r2, err := l.receipts.Issue(ctx, second)
	require.NoError(t, err)
	r3, err := l.receipts.Issue(ctx, first)
	require.NoError(t, err)

	assert.Equal(t, "BL-0002", r2.Code)
	assert.Equal(t, "BL-0003", r3.Code)

	latest, err := l.receipts.FindByOrder(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "BL-0003", latest.Code)

	next, err := l.receipts.PreviewCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "BL-0004", next)
}

func TestFindByOrderWithoutReceipt(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())

	code, err := l.orders.Submit(ctx, validInput())
	require.NoError(t, err)

	_, err = l.receipts.FindByOrder(ctx, code)
	assert.True(t, apperror.IsNotFound(err))

	_, err = l.receipts.FindByCode(ctx, "BL-0001")
	assert.True(t, apperror.IsNotFound(err))
}

func TestIssueKeepsStoredNetOnDrift(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())

	order := &entity.Order{
		Code:     "OC-0001",
		Customer: "Ana",
		Address:  "Calle 1",
		Phone:    "912345678",
		District: "Centro",
		Region:   "RM",
		Items: []entity.LineItem{
			{Product: "Hammer", Price: decimal.NewFromInt(1000), Quantity: 2},
		},
		Net: decimal.NewFromInt(1500),
	}
	require.NoError(t, l.db.Create(order).Error)

	receipt, err := l.receipts.Issue(ctx, "OC-0001")
	require.NoError(t, err)
	assert.Equal(t, "1500.00", receipt.Net.StringFixed(2))
	assert.Equal(t, "285.00", receipt.Tax.StringFixed(2))
	assert.Equal(t, "1785.00", receipt.Total.StringFixed(2))
}

func TestIssueCopiesOwner(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())

	owner := uint(7)
	in := validInput()
	in.OwnerID = &owner
	code, err := l.orders.Submit(ctx, in)
	require.NoError(t, err)

	receipt, err := l.receipts.Issue(ctx, code)
	require.NoError(t, err)
	require.NotNil(t, receipt.OwnerID)
	assert.Equal(t, owner, *receipt.OwnerID)
}

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, job []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, append([]byte(nil), job...))
	return nil
}

func (p *recordingPrinter) Available(context.Context) bool { return p.err == nil }
func (p *recordingPrinter) Kind() string                   { return "test" }

func TestPrintReceipt(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())
	code, err := l.orders.Submit(ctx, validInput())
	require.NoError(t, err)
	receipt, err := l.receipts.Issue(ctx, code)
	require.NoError(t, err)

	rec := &recordingPrinter{}
	header := entity.ReceiptHeader{StoreName: "Ferreteria", TaxID: "76.123.456-7"}
	svc := NewPrinterService(l.receipts, rec, header, 32, time.UTC, logger.Nop())

	_, err = svc.PrintReceipt(ctx, receipt.Code)
	require.NoError(t, err)
	require.Len(t, rec.jobs, 1)
	job := rec.jobs[0]
	assert.True(t, bytes.Contains(job, []byte("BL-0001")))
	assert.True(t, bytes.Contains(job, []byte("$2380.00")))
	assert.True(t, bytes.Contains(job, []byte("RUT 76.123.456-7")))
	assert.True(t, bytes.HasSuffix(job, []byte{0x1D, 'V', 0x01}))

	status := svc.Status(ctx)
	assert.Equal(t, "test", status.Type)
	assert.True(t, status.Available)

	data, r, err := svc.RenderPDF(ctx, receipt.Code)
	require.NoError(t, err)
	assert.Equal(t, receipt.Code, r.Code)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPrintFailureStillReturnsReceipt(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t, testLedgerConfig())
	code, err := l.orders.Submit(ctx, validInput())
	require.NoError(t, err)
	receipt, err := l.receipts.Issue(ctx, code)
	require.NoError(t, err)

	svc := NewPrinterService(l.receipts, &recordingPrinter{err: errors.New("offline")},
		entity.ReceiptHeader{StoreName: "Ferreteria"}, 32, nil, logger.Nop())

	got, err := svc.PrintReceipt(ctx, receipt.Code)
	require.Error(t, err)
	require.NotNil(t, got)
	assert.Equal(t, receipt.Code, got.Code)
	assert.Equal(t, 502, apperror.GetAppError(err).Code)

	_, err = svc.PrintReceipt(ctx, "BL-0099")
	assert.True(t, apperror.IsNotFound(err))
}
