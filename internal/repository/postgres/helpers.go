package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/utils"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type scope = func(*gorm.DB) *gorm.DB

// paginate counts the filtered rows and loads the requested page in
// parallel, each on its own session.
func paginate[T any](ctx context.Context, db *gorm.DB, q domain.PageQuery, filter scope, page ...scope) (domain.Page[T], error) {
	var (
		total int64
		items []T
	)

	if q.Page < 1 {
		q.Page = utils.DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = utils.DefaultLimit
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return db.WithContext(gctx).Model(new(T)).Scopes(filter).Count(&total).Error
	})

	g.Go(func() error {
		return db.WithContext(gctx).Model(new(T)).
			Scopes(filter).
			Scopes(page...).
			Offset(q.Offset()).
			Limit(q.Limit).
			Find(&items).Error
	})

	if err := g.Wait(); err != nil {
		return domain.Page[T]{}, err
	}

	if items == nil {
		items = []T{}
	}

	return domain.Page[T]{
		Items:      items,
		Pagination: domain.NewPagination(q.Page, q.Limit, total),
	}, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Errorf(domain.ErrNotFound, "%s not found", what)
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern builds a case-insensitive substring pattern. Wildcards in the
// search text are escaped; queries pair it with ESCAPE '\'.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
