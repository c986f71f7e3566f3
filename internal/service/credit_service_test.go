package service

import (
	"context"
	"testing"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGetBalanceCreatesZeroRow(t *testing.T) {
	factory := newFakeFactory()
	svc := NewCreditService(factory)
	userId := uuid.New()

	balance, err := svc.GetBalance(context.Background(), userId)

	assert.NoError(t, err)
	assert.Equal(t, 0, balance.CreditsRemaining)
	assert.Equal(t, 0, balance.CreditsTotal)
	// The zero row must have been persisted so later conditional updates
	// have something to match against.
	assert.Len(t, factory.uow.credits.balances, 1)
}

func TestRedeemPromoUnknownCode(t *testing.T) {
	factory := newFakeFactory()
	svc := NewCreditService(factory)

	_, err := svc.RedeemPromo(context.Background(), uuid.New(), &dto.RedeemPromoRequest{Code: "NOPE"})

	assert.ErrorIs(t, err, ErrPromoNotFound)
	assert.Empty(t, factory.uow.creditTxs.transactions)
}

func TestRedeemPromoGrantsCreditsOnce(t *testing.T) {
	factory := newFakeFactory()
	svc := NewCreditService(factory)
	userId := uuid.New()

	res, err := svc.RedeemPromo(context.Background(), userId, &dto.RedeemPromoRequest{Code: "ALEX10"})

	assert.NoError(t, err)
	assert.Equal(t, 10, res.CreditsAwarded)

	balance := factory.uow.credits.balances[userId]
	assert.NotNil(t, balance)
	assert.Equal(t, 10, balance.CreditsRemaining)

	assert.Len(t, factory.uow.creditTxs.transactions, 1)
	assert.Equal(t, entity.CreditTransactionPromo, factory.uow.creditTxs.transactions[0].Type)
	assert.Equal(t, 10, factory.uow.creditTxs.transactions[0].Amount)

	// Second redeem of the same code is rejected and grants nothing.
	_, err = svc.RedeemPromo(context.Background(), userId, &dto.RedeemPromoRequest{Code: "ALEX10"})
	assert.ErrorIs(t, err, ErrPromoAlreadyUsed)
	assert.Equal(t, 10, factory.uow.credits.balances[userId].CreditsRemaining)
	assert.Len(t, factory.uow.creditTxs.transactions, 1)
}

func TestRedeemPromoIsCaseInsensitive(t *testing.T) {
	factory := newFakeFactory()
	svc := NewCreditService(factory)
	userId := uuid.New()

	res, err := svc.RedeemPromo(context.Background(), userId, &dto.RedeemPromoRequest{Code: "alex10"})

	assert.NoError(t, err)
	assert.Equal(t, "ALEX10", res.Code)
	assert.Equal(t, 10, res.CreditsAwarded)
	assert.Equal(t, 10, factory.uow.credits.balances[userId].CreditsRemaining)

	// The usage row stores the canonical form.
	assert.Len(t, factory.uow.promoUsage.usages, 1)
	assert.Equal(t, "ALEX10", factory.uow.promoUsage.usages[0].PromoCode)

	// A differently-cased retry is the same code.
	_, err = svc.RedeemPromo(context.Background(), userId, &dto.RedeemPromoRequest{Code: "Alex10"})
	assert.ErrorIs(t, err, ErrPromoAlreadyUsed)
	assert.Equal(t, 10, factory.uow.credits.balances[userId].CreditsRemaining)
}

func TestGetTransactionsMapsReference(t *testing.T) {
	factory := newFakeFactory()
	svc := NewCreditService(factory)
	userId := uuid.New()
	ref := uuid.New()

	factory.uow.creditTxs.transactions = []*entity.CreditTransaction{
		{Id: uuid.New(), UserId: userId, Amount: -1, Type: entity.CreditTransactionGeneration, ReferenceId: &ref},
	}

	txs, err := svc.GetTransactions(context.Background(), userId)

	assert.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, -1, txs[0].Amount)
	assert.NotNil(t, txs[0].ReferenceId)
	assert.Equal(t, ref.String(), *txs[0].ReferenceId)
}
