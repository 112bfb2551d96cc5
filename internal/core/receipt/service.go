package receipt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipeai/internal/core/ingredient"
	"recipeai/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options 收據服務設定
type Options struct {
	Language   string
	OCRTimeout time.Duration
	AutoImport bool
	Workers    int
}

// Service 收據處理服務：OCR → 擷取 → 儲存
type Service struct {
	engine   Recognizer
	store    Store
	importer Importer
	observer Observer
	opts     Options
	now      func() time.Time
}

// NewService 創建收據服務；importer 與 observer 可為 nil
func NewService(engine Recognizer, store Store, importer Importer, observer Observer, opts Options) *Service {
	if opts.Language == "" {
		opts.Language = "spa"
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Service{
		engine:   engine,
		store:    store,
		importer: importer,
		observer: observer,
		opts:     opts,
		now:      time.Now,
	}
}

// Process 處理單張收據。OCR 失敗時整張收據標記為 error 並回傳錯誤，不產生部分結果。
func (s *Service) Process(ctx context.Context, userID string, up Upload) (*Result, error) {
	rec := &Receipt{
		ID:         common.GenerateUUID(),
		UserID:     userID,
		Filename:   up.Filename,
		Path:       up.Path,
		Status:     StatusPending,
		UploadedAt: s.now().UTC(),
	}
	if err := s.store.CreateReceipt(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}

	common.LogInfo("Processing receipt",
		zap.String("receipt_id", rec.ID),
		zap.String("filename", up.Filename),
		zap.String("user_id", userID),
	)

	start := s.now()
	text, err := s.recognize(ctx, up.Path)
	elapsed := s.now().Sub(start)
	if err != nil {
		rec.Status = StatusError
		rec.Error = err.Error()
		if ferr := s.finish(ctx, rec, elapsed); ferr != nil {
			err = errors.Join(err, ferr)
		}
		return &Result{Receipt: rec}, err
	}

	rec.ExtractedIngredients = Extract(text)
	rec.Status = StatusProcessed
	if err := s.finish(ctx, rec, elapsed); err != nil {
		return nil, err
	}

	result := &Result{Receipt: rec}
	if s.opts.AutoImport && s.importer != nil && len(rec.ExtractedIngredients) > 0 {
		imported, err := s.importer.AddMany(ctx, userID, toAddInputs(rec.ExtractedIngredients))
		if err != nil {
			return result, fmt.Errorf("failed to import receipt ingredients: %w", err)
		}
		result.Imported = imported
	}

	common.LogInfo("Receipt processed",
		zap.String("receipt_id", rec.ID),
		zap.Int("extracted", len(rec.ExtractedIngredients)),
		zap.Int("imported", len(result.Imported)),
		zap.Duration("ocr_duration", elapsed),
	)
	return result, nil
}

// recognize 呼叫 OCR 引擎並將錯誤歸類為逾時或辨識失敗
func (s *Service) recognize(ctx context.Context, path string) (string, error) {
	ocrCtx := ctx
	if s.opts.OCRTimeout > 0 {
		var cancel context.CancelFunc
		ocrCtx, cancel = context.WithTimeout(ctx, s.opts.OCRTimeout)
		defer cancel()
	}

	text, err := s.engine.Recognize(ocrCtx, path, s.opts.Language)
	if err == nil {
		return text, nil
	}

	switch {
	case errors.Is(err, common.ErrUnsupportedReceipt):
		return "", err
	case ctx.Err() == nil && errors.Is(ocrCtx.Err(), context.DeadlineExceeded):
		return "", common.ErrOCRTimeout.Wrap(err)
	default:
		return "", common.ErrOCRFailure.Wrap(err)
	}
}

// finish 寫回最終狀態並通知觀察者。
// 請求取消後仍需寫回，否則收據會一直停在 pending。
func (s *Service) finish(ctx context.Context, rec *Receipt, elapsed time.Duration) error {
	ctx = context.WithoutCancel(ctx)

	processedAt := s.now().UTC()
	rec.ProcessedAt = &processedAt

	if s.observer != nil {
		s.observer.ObserveReceipt(string(rec.Status), elapsed, len(rec.ExtractedIngredients))
	}

	if err := s.store.UpdateReceipt(ctx, rec); err != nil {
		common.LogError("Failed to update receipt",
			zap.String("receipt_id", rec.ID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to update receipt: %w", err)
	}
	if rec.Status == StatusError {
		common.LogWarn("Receipt processing failed",
			zap.String("receipt_id", rec.ID),
			zap.String("error", rec.Error),
		)
	}
	return nil
}

// ProcessBatch 並行處理多張收據，各張收據的成敗互不影響，結果順序與輸入相同
func (s *Service) ProcessBatch(ctx context.Context, userID string, uploads []Upload) []BatchResult {
	results := make([]BatchResult, len(uploads))

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, up := range uploads {
		g.Go(func() error {
			res, err := s.Process(ctx, userID, up)
			results[i] = BatchResult{Filename: up.Filename, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// List 使用者的所有收據
func (s *Service) List(ctx context.Context, userID string) ([]Receipt, error) {
	receipts, err := s.store.ListReceipts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, nil
}

func toAddInputs(items []ExtractedIngredient) []ingredient.AddInput {
	inputs := make([]ingredient.AddInput, 0, len(items))
	for _, item := range items {
		q := item.Quantity
		inputs = append(inputs, ingredient.AddInput{
			Name:     item.Name,
			Quantity: &q,
			Unit:     item.Unit,
			Source:   ingredient.SourceReceipt,
		})
	}
	return inputs
}
