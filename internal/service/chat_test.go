package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
)

func TestCreateConversationDeduplicatesMembers(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewChatService(newFakeConversationRepo(), nil, userRepo, nil)
	ctx := context.Background()

	creator := primitive.NewObjectID()
	other := &models.User{Username: "friend", Role: models.RoleAuthor}
	require.NoError(t, userRepo.Create(ctx, other))

	// 重複的成員與發起者自己都只算一次
	conv, err := svc.CreateConversation(ctx, creator,
		[]primitive.ObjectID{other.ID, other.ID, creator, other.ID})
	require.NoError(t, err)
	require.Len(t, conv.Participants, 2)
	assert.Equal(t, creator, conv.Participants[0])
	assert.Equal(t, other.ID, conv.Participants[1])
}

func TestCreateConversationUnknownMember(t *testing.T) {
	svc := NewChatService(newFakeConversationRepo(), nil, newFakeUserRepo(), nil)

	_, err := svc.CreateConversation(context.Background(), primitive.NewObjectID(),
		[]primitive.ObjectID{primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateConversationRequiresAnotherMember(t *testing.T) {
	svc := NewChatService(newFakeConversationRepo(), nil, newFakeUserRepo(), nil)
	creator := primitive.NewObjectID()

	// 只有發起者自己無法成立對話
	_, err := svc.CreateConversation(context.Background(), creator,
		[]primitive.ObjectID{creator, creator})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetConversationMembershipRequired(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewChatService(newFakeConversationRepo(), nil, userRepo, nil)
	ctx := context.Background()

	creator := primitive.NewObjectID()
	other := &models.User{Username: "friend", Role: models.RoleAuthor}
	require.NoError(t, userRepo.Create(ctx, other))

	conv, err := svc.CreateConversation(ctx, creator, []primitive.ObjectID{other.ID})
	require.NoError(t, err)

	_, err = svc.GetConversation(ctx, conv.ID, creator)
	require.NoError(t, err)

	_, err = svc.GetConversation(ctx, conv.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrForbidden)
}
