package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"singularshift/internal/model"
)

// recordingGateway captures the calls repositories make
type recordingGateway struct {
	collection string
	query      Query
	where      []Where
	added      interface{}
	count      int64
	addErr     error
}

func (g *recordingGateway) Add(_ context.Context, collection string, doc interface{}) (string, error) {
	g.collection, g.added = collection, doc
	if g.addErr != nil {
		return "", g.addErr
	}
	return "new-id", nil
}

func (g *recordingGateway) Get(_ context.Context, collection, _ string, _ interface{}) (bool, error) {
	g.collection = collection
	return false, nil
}

func (g *recordingGateway) Query(_ context.Context, collection string, q Query, _ interface{}) error {
	g.collection, g.query = collection, q
	return nil
}

func (g *recordingGateway) Count(_ context.Context, collection string, where []Where) (int64, error) {
	g.collection, g.where = collection, where
	return g.count, nil
}

func (g *recordingGateway) Each(_ context.Context, collection string, q Query, _ func(func(interface{}) error) error) error {
	g.collection, g.query = collection, q
	return nil
}

func TestInterviewRepo_Create(t *testing.T) {
	gw := &recordingGateway{}
	doc := &model.InterviewDocument{InterviewID: "iv-1"}

	id, err := NewInterviewRepo(gw).Create(context.Background(), doc)

	require.NoError(t, err)
	assert.Equal(t, "new-id", id)
	assert.Equal(t, interviewsCollection, gw.collection)
	assert.Same(t, doc, gw.added)
}

func TestInterviewRepo_CreateDuplicate(t *testing.T) {
	gw := &recordingGateway{addErr: fmt.Errorf("insert into interviews: %w", ErrDuplicate)}

	id, err := NewInterviewRepo(gw).Create(context.Background(), &model.InterviewDocument{InterviewID: "iv-1"})

	assert.ErrorIs(t, err, ErrInterviewExists)
	assert.Empty(t, id)
}

func TestInterviewRepo_GetByIDMissing(t *testing.T) {
	doc, err := NewInterviewRepo(&recordingGateway{}).GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestInterviewRepo_LatestFinalized(t *testing.T) {
	gw := &recordingGateway{}
	_, err := NewInterviewRepo(gw).LatestFinalized(context.Background(), "u-1", 20)
	require.NoError(t, err)

	assert.Equal(t, []Where{
		{Field: "finalized", Op: OpEq, Value: true},
		{Field: "userId", Op: OpNe, Value: "u-1"},
	}, gw.query.Where)
	assert.Equal(t, []OrderBy{{Field: "createdAt", Desc: true}}, gw.query.OrderBy)
	assert.Equal(t, int64(20), gw.query.Limit)
}

func TestInterviewRepo_ByUser(t *testing.T) {
	gw := &recordingGateway{}
	_, err := NewInterviewRepo(gw).ByUser(context.Background(), "u-2")
	require.NoError(t, err)

	assert.Equal(t, []Where{{Field: "userId", Op: OpEq, Value: "u-2"}}, gw.query.Where)
	assert.True(t, gw.query.OrderBy[0].Desc)
}

func TestInterviewRepo_Count(t *testing.T) {
	gw := &recordingGateway{count: 7}
	repo := NewInterviewRepo(gw)

	n, err := repo.Count(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, []Where{{Field: "finalized", Op: OpEq, Value: true}}, gw.where)

	_, err = repo.Count(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, gw.where)
}

func TestUserRepo_GetByEmailNormalizes(t *testing.T) {
	gw := &recordingGateway{}
	user, err := NewUserRepo(gw).GetByEmail(context.Background(), "  Ada@Example.COM ")

	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, usersCollection, gw.collection)
	assert.Equal(t, "ada@example.com", gw.query.Where[0].Value)
}

func TestUserRepo_Create(t *testing.T) {
	gw := &recordingGateway{}
	u := &model.User{Name: "Ada", Email: "ADA@example.com"}

	id, err := NewUserRepo(gw).Create(context.Background(), u)

	require.NoError(t, err)
	assert.Equal(t, "new-id", id)
	assert.Equal(t, "new-id", u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
}
