package repository

import (
	"context"
	"errors"

	"singularshift/internal/model"
)

const interviewsCollection = "interviews"

// ErrInterviewExists is returned when a document with the same interviewId
// was already stored
var ErrInterviewExists = errors.New("interview already stored")

// InterviewRepo handles persisted audit documents
type InterviewRepo interface {
	Create(ctx context.Context, doc *model.InterviewDocument) (string, error)
	GetByID(ctx context.Context, id string) (*model.InterviewDocument, error)
	ByUser(ctx context.Context, userID string) ([]*model.InterviewDocument, error)
	LatestFinalized(ctx context.Context, excludeUserID string, limit int64) ([]*model.InterviewDocument, error)
	Count(ctx context.Context, finalizedOnly bool) (int64, error)
	EachFinalized(ctx context.Context, fn func(doc *model.InterviewDocument) error) error
}

type interviewRepo struct {
	gw Gateway
}

func NewInterviewRepo(gw Gateway) InterviewRepo {
	return &interviewRepo{gw: gw}
}

// Create writes doc once. The unique interviewId index turns a replay into
// ErrInterviewExists.
func (r *interviewRepo) Create(ctx context.Context, doc *model.InterviewDocument) (string, error) {
	id, err := r.gw.Add(ctx, interviewsCollection, doc)
	if errors.Is(err, ErrDuplicate) {
		return "", ErrInterviewExists
	}
	return id, err
}

func (r *interviewRepo) GetByID(ctx context.Context, id string) (*model.InterviewDocument, error) {
	var doc model.InterviewDocument
	found, err := r.gw.Get(ctx, interviewsCollection, id, &doc)
	if err != nil || !found {
		return nil, err
	}
	return &doc, nil
}

func (r *interviewRepo) ByUser(ctx context.Context, userID string) ([]*model.InterviewDocument, error) {
	var docs []*model.InterviewDocument
	err := r.gw.Query(ctx, interviewsCollection, Query{
		Where:   []Where{{Field: "userId", Op: OpEq, Value: userID}},
		OrderBy: []OrderBy{{Field: "createdAt", Desc: true}},
	}, &docs)
	return docs, err
}

func (r *interviewRepo) LatestFinalized(ctx context.Context, excludeUserID string, limit int64) ([]*model.InterviewDocument, error) {
	where := []Where{{Field: "finalized", Op: OpEq, Value: true}}
	if excludeUserID != "" {
		where = append(where, Where{Field: "userId", Op: OpNe, Value: excludeUserID})
	}
	var docs []*model.InterviewDocument
	err := r.gw.Query(ctx, interviewsCollection, Query{
		Where:   where,
		OrderBy: []OrderBy{{Field: "createdAt", Desc: true}},
		Limit:   limit,
	}, &docs)
	return docs, err
}

func (r *interviewRepo) Count(ctx context.Context, finalizedOnly bool) (int64, error) {
	var where []Where
	if finalizedOnly {
		where = []Where{{Field: "finalized", Op: OpEq, Value: true}}
	}
	return r.gw.Count(ctx, interviewsCollection, where)
}

func (r *interviewRepo) EachFinalized(ctx context.Context, fn func(doc *model.InterviewDocument) error) error {
	q := Query{
		Where:   []Where{{Field: "finalized", Op: OpEq, Value: true}},
		OrderBy: []OrderBy{{Field: "createdAt", Desc: false}},
	}
	return r.gw.Each(ctx, interviewsCollection, q, func(decode func(v interface{}) error) error {
		var doc model.InterviewDocument
		if err := decode(&doc); err != nil {
			return err
		}
		return fn(&doc)
	})
}
