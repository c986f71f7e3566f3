package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"testing"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/contract"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory repository fakes shared by the service tests. They implement
// the same conditional-update semantics as the SQL implementations so the
// services can be exercised without a database.

type fakeUserRepo struct {
	users         map[uuid.UUID]*entity.User
	otpTokens     map[uuid.UUID]*entity.EmailVerificationToken
	refreshTokens []*entity.UserRefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     map[uuid.UUID]*entity.User{},
		otpTokens: map[uuid.UUID]*entity.EmailVerificationToken{},
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.users {
		return u, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	cp := *token
	r.otpTokens[token.Id] = &cp
	return nil
}

func (r *fakeUserRepo) FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	for _, tok := range r.otpTokens {
		cp := *tok
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error {
	delete(r.otpTokens, id)
	return nil
}

func (r *fakeUserRepo) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	return nil
}

func (r *fakeUserRepo) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	return nil, nil
}

func (r *fakeUserRepo) MarkTokenUsed(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	cp := *token
	r.refreshTokens = append(r.refreshTokens, &cp)
	return nil
}

func (r *fakeUserRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error { return nil }

func (r *fakeUserRepo) ActivateUser(ctx context.Context, userId uuid.UUID) error {
	if u, ok := r.users[userId]; ok {
		u.Status = entity.UserStatusActive
		u.EmailVerified = true
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	return nil
}

func (r *fakeUserRepo) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	return nil
}

type fakeProjectRepo struct {
	projects     map[uuid.UUID]*entity.Project
	setOutputErr error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[uuid.UUID]*entity.Project{}}
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	cp := *project
	r.projects[project.Id] = &cp
	return nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *entity.Project) error {
	cp := *project
	r.projects[project.Id] = &cp
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error) {
	for _, p := range r.projects {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProjectRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error) {
	var res []*entity.Project
	for _, p := range r.projects {
		cp := *p
		res = append(res, &cp)
	}
	return res, nil
}

func (r *fakeProjectRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.projects)), nil
}

func (r *fakeProjectRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.GenerationStatus) (bool, error) {
	p, ok := r.projects[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	return true, nil
}

func (r *fakeProjectRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.ProjectPaymentStatus) error {
	if p, ok := r.projects[id]; ok {
		p.PaymentStatus = status
	}
	return nil
}

func (r *fakeProjectRepo) SetOutput(ctx context.Context, id uuid.UUID, outputURL string) error {
	if r.setOutputErr != nil {
		return r.setOutputErr
	}
	if p, ok := r.projects[id]; ok {
		p.OutputImageURL = &outputURL
		p.Status = entity.GenerationStatusCompleted
	}
	return nil
}

type fakeCreditRepo struct {
	balances map[uuid.UUID]*entity.CreditBalance
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{balances: map[uuid.UUID]*entity.CreditBalance{}}
}

func (r *fakeCreditRepo) Create(ctx context.Context, balance *entity.CreditBalance) error {
	cp := *balance
	r.balances[balance.UserId] = &cp
	return nil
}

func (r *fakeCreditRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditBalance, error) {
	for _, b := range r.balances {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeCreditRepo) AddCredits(ctx context.Context, userId uuid.UUID, amount int) error {
	if b, ok := r.balances[userId]; ok {
		b.CreditsRemaining += amount
		b.CreditsTotal += amount
	}
	return nil
}

func (r *fakeCreditRepo) DebitOne(ctx context.Context, userId uuid.UUID) (bool, error) {
	b, ok := r.balances[userId]
	if !ok || b.CreditsRemaining < 1 {
		return false, nil
	}
	b.CreditsRemaining--
	return true, nil
}

func (r *fakeCreditRepo) RemoveCredits(ctx context.Context, userId uuid.UUID, amount int) error {
	if b, ok := r.balances[userId]; ok {
		b.CreditsRemaining -= amount
		if b.CreditsRemaining < 0 {
			b.CreditsRemaining = 0
		}
		b.CreditsTotal -= amount
		if b.CreditsTotal < 0 {
			b.CreditsTotal = 0
		}
	}
	return nil
}

type fakeCreditTxRepo struct {
	transactions []*entity.CreditTransaction
}

func (r *fakeCreditTxRepo) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	cp := *tx
	r.transactions = append(r.transactions, &cp)
	return nil
}

func (r *fakeCreditTxRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error) {
	return r.transactions, nil
}

type fakePromoUsageRepo struct {
	usages []*entity.PromoCodeUsage
}

func (r *fakePromoUsageRepo) Create(ctx context.Context, usage *entity.PromoCodeUsage) error {
	for _, u := range r.usages {
		if u.UserId == usage.UserId && u.PromoCode == usage.PromoCode {
			return context.DeadlineExceeded // any error, stands in for the unique index
		}
	}
	cp := *usage
	r.usages = append(r.usages, &cp)
	return nil
}

func (r *fakePromoUsageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PromoCodeUsage, error) {
	for _, u := range r.usages {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.PaymentSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*entity.PaymentSession{}}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.PaymentSession) error {
	cp := *session
	r.sessions[session.Id] = &cp
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.PaymentSession) error {
	cp := *session
	r.sessions[session.Id] = &cp
	return nil
}

func (r *fakeSessionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.PaymentSessionStatus) (bool, error) {
	s, ok := r.sessions[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	return true, nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentSession, error) {
	for _, s := range r.sessions {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentSession, error) {
	var res []*entity.PaymentSession
	for _, s := range r.sessions {
		cp := *s
		res = append(res, &cp)
	}
	return res, nil
}

// fakeUnitOfWork hands out the shared fakes; Begin/Commit/Rollback are
// recorded but otherwise no-ops since the fakes mutate in place.
type fakeUnitOfWork struct {
	users      *fakeUserRepo
	projects   *fakeProjectRepo
	credits    *fakeCreditRepo
	creditTxs  *fakeCreditTxRepo
	promoUsage *fakePromoUsageRepo
	sessions   *fakeSessionRepo

	commits   int
	rollbacks int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		users:      newFakeUserRepo(),
		projects:   newFakeProjectRepo(),
		credits:    newFakeCreditRepo(),
		creditTxs:  &fakeCreditTxRepo{},
		promoUsage: &fakePromoUsageRepo{},
		sessions:   newFakeSessionRepo(),
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.commits++; return nil }
func (u *fakeUnitOfWork) Rollback() error                 { u.rollbacks++; return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository       { return u.users }
func (u *fakeUnitOfWork) ProjectRepository() contract.ProjectRepository { return u.projects }
func (u *fakeUnitOfWork) CreditRepository() contract.CreditRepository   { return u.credits }
func (u *fakeUnitOfWork) CreditTransactionRepository() contract.CreditTransactionRepository {
	return u.creditTxs
}
func (u *fakeUnitOfWork) PromoCodeUsageRepository() contract.PromoCodeUsageRepository {
	return u.promoUsage
}
func (u *fakeUnitOfWork) PaymentSessionRepository() contract.PaymentSessionRepository {
	return u.sessions
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{uow: newFakeUnitOfWork()}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// fakeFileHeaders builds placeholder multipart headers. They cannot be
// opened; tests that use them must fail before any upload happens.
func fakeFileHeaders(n int) []*multipart.FileHeader {
	headers := make([]*multipart.FileHeader, n)
	for i := range headers {
		headers[i] = &multipart.FileHeader{Filename: "input.jpg"}
	}
	return headers
}

// openFileHeaders builds real, openable multipart headers by writing and
// re-parsing an in-memory form, for tests that exercise the upload path.
func openFileHeaders(t *testing.T, contents ...string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for i, content := range contents {
		part, err := w.CreateFormFile("images", fmt.Sprintf("input-%d.jpg", i))
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images"]
}

// fakeObjectStore stands in for the minio-backed store in project tests.
type fakeObjectStore struct {
	uploads map[string][]byte
	deleted []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{uploads: map[string][]byte{}}
}

func (f *fakeObjectStore) Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error) {
	f.uploads[name] = data
	return "http://storage.local/" + bucket + "/" + name, nil
}

func (f *fakeObjectStore) InputBucket() string { return "imagestudio-inputs" }

func (f *fakeObjectStore) DeleteByURL(ctx context.Context, publicURL string) error {
	f.deleted = append(f.deleted, publicURL)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
