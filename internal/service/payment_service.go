// FILE: internal/service/payment_service.go
package service

import (
	"context"
	"crypto/sha512"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"ai-imagestudio-be/internal/constant"
	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/memory"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"
	"ai-imagestudio-be/pkg/events"
	pktNats "ai-imagestudio-be/pkg/nats" // Renamed to avoid collision
	"ai-imagestudio-be/pkg/storage"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound  = errors.New("payment session not found")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrPackNotFound     = errors.New("credit pack not found")
	ErrNoInputImages    = errors.New("at least one input image is required")
)

type IPaymentService interface {
	CreateGenerationCheckout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest, files []*multipart.FileHeader) (*dto.CheckoutResponse, error)
	CreateCreditCheckout(ctx context.Context, userId uuid.UUID, req *dto.CreditCheckoutRequest) (*dto.CreditCheckoutResponse, error)
	GetCreditPacks(ctx context.Context) []*dto.CreditPackResponse
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
	VerifyPayment(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.PaymentSessionResponse, error)
	GetPaymentHistory(ctx context.Context, userId uuid.UUID) ([]*dto.PaymentSessionResponse, error)
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	store          *storage.ObjectStore
	checkoutCache  *memory.CheckoutCache
	idempotency    *redis.Client
	eventPublisher *pktNats.Publisher
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	store *storage.ObjectStore,
	checkoutCache *memory.CheckoutCache,
	idempotency *redis.Client,
	eventPublisher *pktNats.Publisher,
) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		store:          store,
		checkoutCache:  checkoutCache,
		idempotency:    idempotency,
		eventPublisher: eventPublisher,
	}
}

func newSnapClient() snap.Client {
	var sClient snap.Client
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_IS_PRODUCTION") == "true" {
		env = midtrans.Production
	}
	sClient.New(serverKey, env)
	return sClient
}

func newCoreClient() coreapi.Client {
	var cClient coreapi.Client
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_IS_PRODUCTION") == "true" {
		env = midtrans.Production
	}
	cClient.New(serverKey, env)
	return cClient
}

func readUploadedFile(fh *multipart.FileHeader) ([]byte, string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}

// uploadInputs pushes every uploaded file to the input bucket and returns
// the public URLs in upload order.
func (s *paymentService) uploadInputs(ctx context.Context, projectId uuid.UUID, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for i, fh := range files {
		data, contentType, err := readUploadedFile(fh)
		if err != nil {
			return nil, err
		}
		ext := filepath.Ext(fh.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		name := fmt.Sprintf("%s-%d%s", projectId, i, ext)
		url, err := s.store.Upload(ctx, s.store.InputBucket(), name, data, contentType)
		if err != nil {
			return nil, fmt.Errorf("upload input %d: %w", i, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *paymentService) CreateGenerationCheckout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest, files []*multipart.FileHeader) (*dto.CheckoutResponse, error) {
	if len(files) == 0 {
		return nil, ErrNoInputImages
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	projectId := uuid.New()
	sessionId := uuid.New()

	inputURLs, err := s.uploadInputs(ctx, projectId, files)
	if err != nil {
		return nil, err
	}

	modelName := req.ModelName
	if modelName == "" {
		modelName = constant.DefaultModelName
	}

	session := &entity.PaymentSession{
		Id:        sessionId,
		UserId:    userId,
		Kind:      entity.PaymentSessionGeneration,
		ProjectId: &projectId,
		Amount:    constant.PricePerGeneration,
		Currency:  constant.Currency,
		Status:    entity.PaymentSessionPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	project := &entity.Project{
		Id:               projectId,
		UserId:           userId,
		InputImageURLs:   inputURLs,
		Prompt:           req.Prompt,
		ModelName:        modelName,
		Status:           entity.GenerationStatusPending,
		PaymentStatus:    entity.ProjectPaymentPending,
		PaymentAmount:    constant.PricePerGeneration,
		PaymentSessionId: &sessionId,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.PaymentSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	if err := uow.ProjectRepository().Create(ctx, project); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// -- Midtrans Logic (external call outside the DB tx) --
	snapResp, err := s.createSnapTransaction(sessionId, constant.PricePerGeneration, "Image generation", user)
	if err != nil {
		return nil, err
	}

	session.SnapToken = snapResp.Token
	session.RedirectURL = snapResp.RedirectURL
	if err := s.uowFactory.NewUnitOfWork(ctx).PaymentSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	if s.checkoutCache != nil {
		s.checkoutCache.Save(session)
	}

	return &dto.CheckoutResponse{
		SessionId:       sessionId,
		ProjectId:       projectId,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

func (s *paymentService) CreateCreditCheckout(ctx context.Context, userId uuid.UUID, req *dto.CreditCheckoutRequest) (*dto.CreditCheckoutResponse, error) {
	pack := constant.FindCreditPack(req.PackId)
	if pack == nil {
		return nil, ErrPackNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	sessionId := uuid.New()
	packId := pack.Id
	session := &entity.PaymentSession{
		Id:        sessionId,
		UserId:    userId,
		Kind:      entity.PaymentSessionCreditPack,
		PackId:    &packId,
		Credits:   pack.Credits,
		Amount:    pack.Price,
		Currency:  constant.Currency,
		Status:    entity.PaymentSessionPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := uow.PaymentSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	snapResp, err := s.createSnapTransaction(sessionId, pack.Price, pack.Name, user)
	if err != nil {
		return nil, err
	}

	session.SnapToken = snapResp.Token
	session.RedirectURL = snapResp.RedirectURL
	if err := uow.PaymentSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	if s.checkoutCache != nil {
		s.checkoutCache.Save(session)
	}

	return &dto.CreditCheckoutResponse{
		SessionId:       sessionId,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

func (s *paymentService) createSnapTransaction(orderId uuid.UUID, amount int64, itemName string, user *entity.User) (*snap.Response, error) {
	sClient := newSnapClient()

	frontendURL := os.Getenv("FRONTEND_URL")
	finishRedirectURL := fmt.Sprintf("%s/app?payment=success", frontendURL)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId.String(),
			GrossAmt: amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: finishRedirectURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.FullName,
			Email: user.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    orderId.String(),
				Price: amount,
				Qty:   1,
				Name:  itemName,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}
	return snapResp, nil
}

func (s *paymentService) GetCreditPacks(ctx context.Context) []*dto.CreditPackResponse {
	res := make([]*dto.CreditPackResponse, 0, len(constant.CreditPacks))
	for _, pack := range constant.CreditPacks {
		res = append(res, &dto.CreditPackResponse{
			Id:      pack.Id,
			Name:    pack.Name,
			Credits: pack.Credits,
			Price:   pack.Price,
			Popular: pack.Popular,
		})
	}
	return res
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	fmt.Printf("\n[WEBHOOK] ========== Processing Notification ==========\n")
	fmt.Printf("[WEBHOOK] OrderId: %s | Status: %s\n", req.OrderId, req.TransactionStatus)

	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		fmt.Println("[WEBHOOK ERROR] MIDTRANS_SERVER_KEY not configured")
		return fmt.Errorf("server configuration error")
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))

	if req.SignatureKey != expectedSignature {
		fmt.Printf("[WEBHOOK ERROR] Signature mismatch for OrderId=%s\n", req.OrderId)
		return ErrInvalidSignature
	}
	fmt.Printf("[WEBHOOK] Signature validated successfully\n")

	orderId, err := uuid.Parse(req.OrderId)
	if err != nil {
		fmt.Printf("[WEBHOOK ERROR] Invalid order_id format: %s\n", req.OrderId)
		return fmt.Errorf("invalid order id format")
	}

	var transactionId *string
	if req.TransactionId != "" {
		transactionId = &req.TransactionId
	}
	return s.reconcile(ctx, orderId, req.TransactionStatus, transactionId)
}

func (s *paymentService) VerifyPayment(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.PaymentSessionResponse, error) {
	orderId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return nil, fmt.Errorf("invalid order id format")
	}

	// Recent checkouts are still in the cache; anything else has to exist
	// in the database before we bother the gateway with a status call.
	if _, cached := s.cachedSession(orderId); !cached {
		session, err := s.uowFactory.NewUnitOfWork(ctx).PaymentSessionRepository().FindOne(ctx, specification.ByID{ID: orderId})
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}
	}

	cClient := newCoreClient()
	statusResp, midErr := cClient.CheckTransaction(orderId.String())
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	var transactionId *string
	if statusResp.TransactionID != "" {
		transactionId = &statusResp.TransactionID
	}
	if err := s.reconcile(ctx, orderId, statusResp.TransactionStatus, transactionId); err != nil {
		return nil, err
	}

	session, err := s.uowFactory.NewUnitOfWork(ctx).PaymentSessionRepository().FindOne(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return sessionToDTO(session), nil
}

// reconcile is the single state-advancing path shared by the webhook and
// the client-triggered verify endpoint. A Redis SETNX key makes a double
// delivery of the same (order, status) pair a no-op; the guarded status
// updates close the remaining race when Redis is absent.
func (s *paymentService) reconcile(ctx context.Context, orderId uuid.UUID, transactionStatus string, transactionId *string) error {
	switch transactionStatus {
	case "capture", "settlement", "expire", "deny", "cancel":
		// handled below
	case "pending":
		fmt.Printf("[WEBHOOK] Payment PENDING - no action needed\n")
		return nil
	default:
		fmt.Printf("[WEBHOOK] Unknown status '%s' - no action taken\n", transactionStatus)
		return nil
	}

	if s.idempotency != nil {
		key := fmt.Sprintf("payment:reconcile:%s:%s", orderId, transactionStatus)
		acquired, err := s.idempotency.SetNX(ctx, key, "1", 24*time.Hour).Result()
		if err != nil {
			// Redis being down must not drop payment notifications; the
			// guarded updates below keep the path idempotent.
			fmt.Printf("[WEBHOOK WARN] Idempotency check failed: %v\n", err)
		} else if !acquired {
			fmt.Printf("[WEBHOOK] Duplicate delivery for %s/%s, skipping\n", orderId, transactionStatus)
			return nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	session, err := uow.PaymentSessionRepository().FindOne(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return err
	}
	if session == nil {
		fmt.Printf("[WEBHOOK ERROR] Session not found: %s\n", orderId)
		return ErrSessionNotFound
	}

	fmt.Printf("[WEBHOOK] Found session: Kind=%s, CurrentStatus=%s\n", session.Kind, session.Status)

	switch transactionStatus {
	case "capture", "settlement":
		if err := s.applyPaid(ctx, uow, session, transactionId); err != nil {
			return err
		}
	case "expire":
		if err := s.applyExpired(ctx, uow, session); err != nil {
			return err
		}
	case "deny", "cancel":
		if err := s.applyFailed(ctx, uow, session); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	// The checkout left pending, so the cached snap token is dead.
	if s.checkoutCache != nil {
		s.checkoutCache.Delete(orderId.String())
	}

	fmt.Printf("[WEBHOOK] Successfully reconciled session %s -> %s\n", orderId, transactionStatus)
	fmt.Printf("[WEBHOOK] ===========================================\n\n")
	return nil
}

func (s *paymentService) applyPaid(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.PaymentSession, transactionId *string) error {
	if session.Status == entity.PaymentSessionPaid {
		fmt.Printf("[WEBHOOK] Session already paid, skipping\n")
		return nil
	}
	if !session.Status.CanTransitionTo(entity.PaymentSessionPaid) {
		fmt.Printf("[WEBHOOK] Transition %s -> paid not allowed, skipping\n", session.Status)
		return nil
	}

	moved, err := uow.PaymentSessionRepository().UpdateStatus(ctx, session.Id, session.Status, entity.PaymentSessionPaid)
	if err != nil {
		return err
	}
	if !moved {
		fmt.Printf("[WEBHOOK] Session %s concurrently updated, skipping\n", session.Id)
		return nil
	}

	if transactionId != nil {
		session.Status = entity.PaymentSessionPaid
		session.TransactionId = transactionId
		if err := uow.PaymentSessionRepository().Update(ctx, session); err != nil {
			return err
		}
	}

	switch session.Kind {
	case entity.PaymentSessionGeneration:
		if session.ProjectId != nil {
			if err := uow.ProjectRepository().UpdatePaymentStatus(ctx, *session.ProjectId, entity.ProjectPaymentPaid); err != nil {
				return err
			}
		}
	case entity.PaymentSessionCreditPack:
		balance, err := uow.CreditRepository().FindOne(ctx, specification.OwnedBy{UserID: session.UserId})
		if err != nil {
			return err
		}
		if balance == nil {
			balance = &entity.CreditBalance{
				Id:        uuid.New(),
				UserId:    session.UserId,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			if err := uow.CreditRepository().Create(ctx, balance); err != nil {
				return err
			}
		}
		if err := uow.CreditRepository().AddCredits(ctx, session.UserId, session.Credits); err != nil {
			return err
		}
		ledger := &entity.CreditTransaction{
			Id:          uuid.New(),
			UserId:      session.UserId,
			Amount:      session.Credits,
			Type:        entity.CreditTransactionPurchase,
			Description: fmt.Sprintf("Purchased %d credits", session.Credits),
			ReferenceId: &session.Id,
			CreatedAt:   time.Now(),
		}
		if err := uow.CreditTransactionRepository().Create(ctx, ledger); err != nil {
			return err
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewBaseEvent("PAYMENT_COMPLETED", map[string]interface{}{
			"session_id": session.Id,
			"user_id":    session.UserId,
			"kind":       string(session.Kind),
			"amount":     session.Amount,
			"currency":   session.Currency,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish PAYMENT_COMPLETED event: %v\n", err)
		}
	}
	return nil
}

func (s *paymentService) applyExpired(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.PaymentSession) error {
	if session.Status == entity.PaymentSessionExpired {
		return nil
	}
	if !session.Status.CanTransitionTo(entity.PaymentSessionExpired) {
		fmt.Printf("[WEBHOOK] Transition %s -> expired not allowed, skipping\n", session.Status)
		return nil
	}

	wasPaid := session.Status == entity.PaymentSessionPaid

	moved, err := uow.PaymentSessionRepository().UpdateStatus(ctx, session.Id, session.Status, entity.PaymentSessionExpired)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}

	switch session.Kind {
	case entity.PaymentSessionGeneration:
		if session.ProjectId != nil {
			if err := uow.ProjectRepository().UpdatePaymentStatus(ctx, *session.ProjectId, entity.ProjectPaymentExpired); err != nil {
				return err
			}
			// Best effort: a project that already started generating
			// keeps its state, only pending ones are cancelled.
			if _, err := uow.ProjectRepository().UpdateStatus(ctx, *session.ProjectId, entity.GenerationStatusPending, entity.GenerationStatusCancelled); err != nil {
				return err
			}
		}
	case entity.PaymentSessionCreditPack:
		// A paid pack whose payment later expired: take the credits
		// back (clamped at zero) and record the reversal.
		if wasPaid {
			if err := uow.CreditRepository().RemoveCredits(ctx, session.UserId, session.Credits); err != nil {
				return err
			}
			ledger := &entity.CreditTransaction{
				Id:          uuid.New(),
				UserId:      session.UserId,
				Amount:      -session.Credits,
				Type:        entity.CreditTransactionRefund,
				Description: fmt.Sprintf("Reversed %d credits (payment expired)", session.Credits),
				ReferenceId: &session.Id,
				CreatedAt:   time.Now(),
			}
			if err := uow.CreditTransactionRepository().Create(ctx, ledger); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *paymentService) applyFailed(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.PaymentSession) error {
	if session.Status == entity.PaymentSessionFailed {
		return nil
	}
	if !session.Status.CanTransitionTo(entity.PaymentSessionFailed) {
		fmt.Printf("[WEBHOOK] Transition %s -> failed not allowed, skipping\n", session.Status)
		return nil
	}

	moved, err := uow.PaymentSessionRepository().UpdateStatus(ctx, session.Id, session.Status, entity.PaymentSessionFailed)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}

	if session.Kind == entity.PaymentSessionGeneration && session.ProjectId != nil {
		if err := uow.ProjectRepository().UpdatePaymentStatus(ctx, *session.ProjectId, entity.ProjectPaymentFailed); err != nil {
			return err
		}
	}
	return nil
}

func (s *paymentService) GetPaymentHistory(ctx context.Context, userId uuid.UUID) ([]*dto.PaymentSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.PaymentSessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PaymentSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, sessionToDTO(session))
	}
	return res, nil
}

func (s *paymentService) cachedSession(orderId uuid.UUID) (*entity.PaymentSession, bool) {
	if s.checkoutCache == nil {
		return nil, false
	}
	return s.checkoutCache.Get(orderId.String())
}

func sessionToDTO(session *entity.PaymentSession) *dto.PaymentSessionResponse {
	return &dto.PaymentSessionResponse{
		Id:        session.Id,
		Kind:      string(session.Kind),
		ProjectId: session.ProjectId,
		PackId:    session.PackId,
		Credits:   session.Credits,
		Amount:    session.Amount,
		Currency:  session.Currency,
		Status:    string(session.Status),
		CreatedAt: session.CreatedAt,
	}
}
