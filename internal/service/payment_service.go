package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"forensichub-be/internal/dto"
	"forensichub-be/internal/entity"
	"forensichub-be/internal/pkg/logger"
	"forensichub-be/internal/repository/specification"
	"forensichub-be/internal/repository/unitofwork"
	"forensichub-be/pkg/catalog"
	"forensichub-be/pkg/events"
	pktNats "forensichub-be/pkg/nats"

	"github.com/google/uuid"
)

var (
	ErrIntentNotFound    = errors.New("payment intent not found")
	ErrReceiptRequired   = errors.New("transfer receipt required")
	ErrInvalidTransition = errors.New("invalid wizard step for this operation")
	ErrAlreadyEntitled   = errors.New("item already owned")
)

// PremiumPriceNaira is the flat price of unrestricted portal access.
const PremiumPriceNaira = 5000

// settlementAccount is the manual transfer destination shown at the
// bank_details step.
var settlementAccount = entity.BankAccount{
	BankName:      "Zenith Bank",
	AccountName:   "ForensicHub Educational Services",
	AccountNumber: "1229847365",
}

type IPaymentService interface {
	Start(ctx context.Context, userId uuid.UUID, req *dto.StartPaymentRequest) (*dto.PaymentIntentResponse, error)
	BankDetails(ctx context.Context, userId uuid.UUID, intentId uuid.UUID) (*dto.BankDetailsResponse, error)
	AttachReceipt(ctx context.Context, userId uuid.UUID, intentId uuid.UUID, receiptName string, receipt []byte) (*dto.PaymentIntentResponse, error)
	ConfirmTransfer(ctx context.Context, userId uuid.UUID, intentId uuid.UUID) (*dto.PaymentIntentResponse, error)
	StepBack(ctx context.Context, userId uuid.UUID, intentId uuid.UUID) (*dto.PaymentIntentResponse, error)
	Get(ctx context.Context, userId uuid.UUID, intentId uuid.UUID) (*dto.PaymentIntentResponse, error)
}

type paymentService struct {
	uowFactory      unitofwork.RepositoryFactory
	profiles        IProfileService
	eventPublisher  *pktNats.Publisher
	log             logger.ILogger
	uploadDir       string
	processingDelay time.Duration
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	profiles IProfileService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	uploadDir string,
	processingDelay time.Duration,
) IPaymentService {
	if processingDelay <= 0 {
		processingDelay = 3 * time.Second
	}
	return &paymentService{
		uowFactory:      uowFactory,
		profiles:        profiles,
		eventPublisher:  eventPublisher,
		log:             log,
		uploadDir:       uploadDir,
		processingDelay: processingDelay,
	}
}

func (s *paymentService) Start(ctx context.Context, userId uuid.UUID, req *dto.StartPaymentRequest) (*dto.PaymentIntentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var amount int
	switch entity.PaymentItemKind(req.ItemKind) {
	case entity.PaymentItemPremium:
		user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
		if err != nil {
			return nil, err
		}
		if user != nil && user.Premium {
			return nil, ErrAlreadyEntitled
		}
		amount = PremiumPriceNaira
		req.ItemId = "premium_access"
	case entity.PaymentItemNote:
		note, ok := catalog.FindNote(req.ItemId)
		if !ok {
			return nil, ErrItemNotFound
		}
		profile, err := uow.ProfileRepository().FindByUserId(ctx, userId)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			for _, id := range profile.PurchasedNotes {
				if id == note.ID {
					return nil, ErrAlreadyEntitled
				}
			}
		}
		amount = note.Price
	default:
		return nil, errors.New("unknown item kind")
	}

	intent := &entity.PaymentIntent{
		Id:          uuid.New(),
		UserId:      userId,
		ItemKind:    entity.PaymentItemKind(req.ItemKind),
		ItemId:      req.ItemId,
		AmountNaira: amount,
		Step:        entity.PaymentStepSelection,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := uow.PaymentRepository().Create(ctx, intent); err != nil {
		return nil, err
	}
	return toPaymentResponse(intent), nil
}

// BankDetails advances selection to bank_details and returns the
// settlement account the learner must transfer to.
func (s *paymentService) BankDetails(ctx context.Context, userId uuid.UUID, intentId uuid.UUID) (*dto.BankDetailsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	intent, err := s.findOwned(ctx, uow, userId, intentId)
	if err != nil {
		return nil, err
	}

	switch intent.Step {
	case entity.PaymentStepSelection:
		intent.Step = entity.PaymentStepBankDetails
		intent.UpdatedAt = time.Now()
		if err := uow.PaymentRepository().Update(ctx, intent); err != nil {
			return nil, err
		}
	case entity.PaymentStepBankDetails:
		// Re-fetching the details is idempotent.
	default:
		return nil, ErrInvalidTransition
	}

	return &dto.BankDetailsResponse{
		BankName:      settlementAccount.BankName,
		AccountName:   settlementAccount.AccountName,
		AccountNumber: settlementAccount.AccountNumber,
		AmountNaira:   intent.AmountNaira,
		Reference:     intent.Id.String(),
	}, nil
}

// AttachReceipt stores the uploaded transfer receipt and moves the wizard
// to confirm_transfer. Re-uploading on that step replaces the file.
func (s *paymentService) AttachReceipt(ctx context.Context, userId uuid.UUID, intentId uuid.UUID, receiptName string, receipt []byte) (*dto.PaymentIntentResponse, error) {
	if len(receipt) == 0 {
		return nil, ErrReceiptRequired
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	intent, err := s.findOwned(ctx, uow, userId, intentId)
	if err != nil {
		return nil, err
	}
	if intent.Step != entity.PaymentStepBankDetails && intent.Step != entity.PaymentStepConfirmTransfer {
		return nil, ErrInvalidTransition
	}

	receiptPath := filepath.Join(s.uploadDir, "receipts", fmt.Sprintf("%s_%s", intent.Id, filepath.Base(receiptName)))
	if err := os.MkdirAll(filepath.Dir(receiptPath), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(receiptPath, receipt, 0o644); err != nil {
		return nil, err
	}

	intent.ReceiptPath = receiptPath
	intent.Step = entity.PaymentStepConfirmTransfer
	intent.UpdatedAt = time.Now()
	if err := uow.PaymentRepository().Update(ctx, intent); err != nil {
		return nil, err
	}
	return toPaymentResponse(intent), nil
}

// ConfirmTransfer moves the wizard to processing and schedules
// verification. Without an attached receipt the step does not advance.
func (s *paymentService) ConfirmTransfer(ctx context.Context, userId uuid.UUID, intentId uuid.UUID) (*dto.PaymentIntentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	intent, err := s.findOwned(ctx, uow, userId, intentId)
	if err != nil {
		return nil, err
	}
	switch intent.Step {
	case entity.PaymentStepConfirmTransfer:
	case entity.PaymentStepBankDetails:
		return nil, ErrReceiptRequired
	default:
		return nil, ErrInvalidTransition
	}

	intent.Step = entity.PaymentStepProcessing
	intent.UpdatedAt = time.Now()
	if err := uow.PaymentRepository().Update(ctx, intent); err != nil {
		return nil, err
	}

	go s.finalize(intent.Id)

	return toPaymentResponse(intent), nil
}

// StepBack rewinds the wizard by one step. Processing and success are
// forward-only.
func (s *paymentService) StepBack(ctx context.Context, userId uuid.UUID, intentId uuid.UUID) (*dto.PaymentIntentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	intent, err := s.findOwned(ctx, uow, userId, intentId)
	if err != nil {
		return nil, err
	}

	switch intent.Step {
	case entity.PaymentStepBankDetails:
		intent.Step = entity.PaymentStepSelection
	case entity.PaymentStepConfirmTransfer:
		intent.Step = entity.PaymentStepBankDetails
	default:
		return nil, ErrInvalidTransition
	}
	intent.UpdatedAt = time.Now()
	if err := uow.PaymentRepository().Update(ctx, intent); err != nil {
		return nil, err
	}
	return toPaymentResponse(intent), nil
}

// finalize simulates back-office verification. The processing to success
// hop plus entitlement grant runs inside one transaction and is guarded
// by the step check, so a duplicate timer cannot double-grant.
func (s *paymentService) finalize(intentId uuid.UUID) {
	time.Sleep(s.processingDelay)

	ctx := context.Background()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	intent, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: intentId})
	if err != nil || intent == nil {
		return
	}
	if intent.Step != entity.PaymentStepProcessing {
		return
	}

	if err := uow.Begin(ctx); err != nil {
		return
	}
	defer uow.Rollback()

	now := time.Now()
	intent.Step = entity.PaymentStepSuccess
	intent.CompletedAt = &now
	intent.UpdatedAt = now
	if err := uow.PaymentRepository().Update(ctx, intent); err != nil {
		return
	}

	switch intent.ItemKind {
	case entity.PaymentItemPremium:
		if err := uow.UserRepository().GrantPremium(ctx, intent.UserId); err != nil {
			return
		}
	case entity.PaymentItemNote:
		// Recorded outside the uow below; the purchase set is grow-only
		// so a replay is harmless.
	}

	if err := uow.Commit(); err != nil {
		s.log.Error("payment", "failed to finalize intent", map[string]interface{}{
			"intent_id": intentId.String(),
			"error":     err.Error(),
		})
		return
	}

	if intent.ItemKind == entity.PaymentItemNote {
		if err := s.profiles.RecordPurchase(ctx, intent.UserId, intent.ItemId); err != nil {
			s.log.Error("payment", "failed to record note purchase", map[string]interface{}{
				"intent_id": intentId.String(),
				"error":     err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, events.PaymentConfirmed(
			intent.UserId.String(), intent.Id.String(), intent.ItemId, string(intent.ItemKind)))
	}
}

func (s *paymentService) Get(ctx context.Context, userId uuid.UUID, intentId uuid.UUID) (*dto.PaymentIntentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	intent, err := s.findOwned(ctx, uow, userId, intentId)
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(intent), nil
}

func (s *paymentService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, intentId uuid.UUID) (*entity.PaymentIntent, error) {
	intent, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: intentId})
	if err != nil {
		return nil, err
	}
	if intent == nil || intent.UserId != userId {
		return nil, ErrIntentNotFound
	}
	return intent, nil
}

func toPaymentResponse(p *entity.PaymentIntent) *dto.PaymentIntentResponse {
	return &dto.PaymentIntentResponse{
		Id:          p.Id,
		ItemKind:    string(p.ItemKind),
		ItemId:      p.ItemId,
		AmountNaira: p.AmountNaira,
		Step:        string(p.Step),
		CompletedAt: p.CompletedAt,
		CreatedAt:   p.CreatedAt,
	}
}
