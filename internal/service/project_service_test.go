package service

import (
	"context"
	"testing"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreateWithCreditsRequiresImages(t *testing.T) {
	factory := newFakeFactory()
	svc := NewProjectService(factory, nil, nopLogger{})

	_, err := svc.CreateWithCredits(context.Background(), uuid.New(), &dto.CreateProjectRequest{Prompt: "x"}, nil)

	assert.ErrorIs(t, err, ErrNoInputImages)
}

func TestCreateWithCreditsInsufficientBalance(t *testing.T) {
	factory := newFakeFactory()
	svc := NewProjectService(factory, nil, nopLogger{})
	userId := uuid.New()

	factory.uow.credits.balances[userId] = &entity.CreditBalance{
		Id:               uuid.New(),
		UserId:           userId,
		CreditsRemaining: 0,
		CreditsTotal:     5,
	}

	_, err := svc.CreateWithCredits(context.Background(), userId, &dto.CreateProjectRequest{Prompt: "x"},
		fakeFileHeaders(1))

	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Empty(t, factory.uow.projects.projects)
	assert.Empty(t, factory.uow.creditTxs.transactions)
	assert.Equal(t, 0, factory.uow.credits.balances[userId].CreditsRemaining)
}

func TestCreateWithCreditsNoBalanceRow(t *testing.T) {
	factory := newFakeFactory()
	svc := NewProjectService(factory, nil, nopLogger{})

	_, err := svc.CreateWithCredits(context.Background(), uuid.New(), &dto.CreateProjectRequest{Prompt: "x"},
		fakeFileHeaders(1))

	assert.ErrorIs(t, err, ErrInsufficientCredits)
}

func TestCreateWithCreditsDebitsBalance(t *testing.T) {
	factory := newFakeFactory()
	store := newFakeObjectStore()
	svc := NewProjectService(factory, store, nopLogger{})
	userId := uuid.New()

	factory.uow.credits.balances[userId] = &entity.CreditBalance{
		Id:               uuid.New(),
		UserId:           userId,
		CreditsRemaining: 2,
		CreditsTotal:     10,
	}

	res, err := svc.CreateWithCredits(context.Background(), userId,
		&dto.CreateProjectRequest{Prompt: "remove background"},
		openFileHeaders(t, "jpeg-bytes"))

	assert.NoError(t, err)
	assert.Equal(t, 1, factory.uow.credits.balances[userId].CreditsRemaining)
	assert.Len(t, store.uploads, 1)
	assert.Len(t, res.InputImageURLs, 1)
	assert.Equal(t, string(entity.GenerationStatusPending), res.Status)
	assert.Equal(t, string(entity.ProjectPaymentPaid), res.PaymentStatus)

	assert.Len(t, factory.uow.creditTxs.transactions, 1)
	ledger := factory.uow.creditTxs.transactions[0]
	assert.Equal(t, -1, ledger.Amount)
	assert.Equal(t, entity.CreditTransactionGeneration, ledger.Type)
	if assert.NotNil(t, ledger.ReferenceId) {
		assert.Equal(t, res.Id, *ledger.ReferenceId)
	}
	assert.Equal(t, 1, factory.uow.commits)
}

func TestDeleteRemovesStoredObjects(t *testing.T) {
	factory := newFakeFactory()
	store := newFakeObjectStore()
	svc := NewProjectService(factory, store, nopLogger{})
	userId := uuid.New()

	projectId := uuid.New()
	output := "http://storage.local/imagestudio-outputs/out.jpg"
	factory.uow.projects.projects[projectId] = &entity.Project{
		Id:             projectId,
		UserId:         userId,
		InputImageURLs: []string{"http://storage.local/imagestudio-inputs/in.jpg"},
		OutputImageURL: &output,
		Status:         entity.GenerationStatusCompleted,
		PaymentStatus:  entity.ProjectPaymentPaid,
	}

	err := svc.Delete(context.Background(), userId, projectId)

	assert.NoError(t, err)
	assert.Empty(t, factory.uow.projects.projects)
	assert.ElementsMatch(t, []string{
		"http://storage.local/imagestudio-inputs/in.jpg",
		output,
	}, store.deleted)
}

func TestGetUnknownProject(t *testing.T) {
	factory := newFakeFactory()
	svc := NewProjectService(factory, nil, nopLogger{})

	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestListMapsProjects(t *testing.T) {
	factory := newFakeFactory()
	svc := NewProjectService(factory, nil, nopLogger{})
	userId := uuid.New()

	projectId := uuid.New()
	output := "http://storage.local/outputs/out.jpg"
	factory.uow.projects.projects[projectId] = &entity.Project{
		Id:             projectId,
		UserId:         userId,
		Prompt:         "remove background",
		ModelName:      "google/nano-banana",
		InputImageURLs: []string{"http://storage.local/inputs/in.jpg"},
		OutputImageURL: &output,
		Status:         entity.GenerationStatusCompleted,
		PaymentStatus:  entity.ProjectPaymentPaid,
	}

	projects, err := svc.List(context.Background(), userId)

	assert.NoError(t, err)
	assert.Len(t, projects, 1)
	assert.Equal(t, projectId, projects[0].Id)
	assert.Equal(t, "remove background", projects[0].Prompt)
	assert.Equal(t, string(entity.GenerationStatusCompleted), projects[0].Status)
	assert.NotNil(t, projects[0].OutputImageURL)
}
