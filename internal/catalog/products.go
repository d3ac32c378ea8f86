package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/capsresources/resource-organizer/constants"
	"github.com/capsresources/resource-organizer/internal/common"
	"github.com/capsresources/resource-organizer/internal/entity"
)

const productsTable = "products"

type ProductRepository interface {
	ExistsByFileName(ctx context.Context, fileName string) (bool, error)
	Create(ctx context.Context, p *entity.Product) error
	GetByFileName(ctx context.Context, fileName string) (*entity.Product, error)
	Count(ctx context.Context) (int, error)
	CountByGrade(ctx context.Context) ([]entity.GradeCount, error)
}

type productRepository struct {
	store  *Store
	logger *slog.Logger
}

func NewProductRepository(store *Store, logger *slog.Logger) ProductRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &productRepository{
		store:  store,
		logger: logger,
	}
}

func (r *productRepository) ExistsByFileName(ctx context.Context, fileName string) (bool, error) {
	b := r.store.builder()
	query, args := b.Select(entsql.Count("*")).
		From(b.Table(productsTable)).
		Where(entsql.EQ("file_name", fileName)).
		Query()
	n, err := r.scanInt(ctx, query, args)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *productRepository) Create(ctx context.Context, p *entity.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	query, args := r.store.builder().Insert(productsTable).
		Columns("id", "title", "description", "grade", "subject", "price", "file_name",
			"file_size", "pages", "thumbnail", "category", "tags", "downloads", "is_active", "created_at").
		Values(p.ID.String(), p.Title, p.Description, p.Grade, p.Subject, p.Price, p.FileName,
			p.FileSize, p.Pages, p.Thumbnail, p.Category, string(tags), p.Downloads, p.IsActive, p.CreatedAt.UTC()).
		Query()

	if err := r.store.drv.Exec(ctx, query, args, nil); err != nil {
		r.logger.Error("failed to insert product", "file_name", p.FileName, "error", err)
		return common.NewAppError("DB_ERROR", "insert product", fmt.Errorf("%w: %v", common.ErrDatabase, err))
	}
	return nil
}

func (r *productRepository) GetByFileName(ctx context.Context, fileName string) (*entity.Product, error) {
	b := r.store.builder()
	query, args := b.Select("id", "title", "description", "grade", "subject", "price", "file_name",
		"file_size", "pages", "thumbnail", "category", "tags", "downloads", "is_active").
		From(b.Table(productsTable)).
		Where(entsql.EQ("file_name", fileName)).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.store.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, common.NewAppError("DB_ERROR", "query product", fmt.Errorf("%w: %v", common.ErrDatabase, err))
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, common.NewAppError("NOT_FOUND", fileName, common.ErrNotFound)
	}
	var (
		p    entity.Product
		id   string
		tags string
	)
	if err := rows.Scan(&id, &p.Title, &p.Description, &p.Grade, &p.Subject, &p.Price, &p.FileName,
		&p.FileSize, &p.Pages, &p.Thumbnail, &p.Category, &tags, &p.Downloads, &p.IsActive); err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse product id: %w", err)
	}
	p.ID = pid
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return &p, nil
}

func (r *productRepository) Count(ctx context.Context) (int, error) {
	b := r.store.builder()
	query, args := b.Select(entsql.Count("*")).From(b.Table(productsTable)).Query()
	return r.scanInt(ctx, query, args)
}

// CountByGrade returns product counts per grade, ordered by grade level.
func (r *productRepository) CountByGrade(ctx context.Context) ([]entity.GradeCount, error) {
	b := r.store.builder()
	query, args := b.Select("grade", entsql.As(entsql.Count("*"), "n")).
		From(b.Table(productsTable)).
		GroupBy("grade").
		Query()

	var rows entsql.Rows
	if err := r.store.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, common.NewAppError("DB_ERROR", "count by grade", fmt.Errorf("%w: %v", common.ErrDatabase, err))
	}
	defer rows.Close()

	var out []entity.GradeCount
	for rows.Next() {
		var gc entity.GradeCount
		if err := rows.Scan(&gc.Grade, &gc.Count); err != nil {
			return nil, fmt.Errorf("scan grade count: %w", err)
		}
		out = append(out, gc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := constants.GradeRank(constants.Grade(out[i].Grade)), constants.GradeRank(constants.Grade(out[j].Grade))
		if ri != rj {
			return ri < rj
		}
		return out[i].Grade < out[j].Grade
	})
	return out, nil
}

func (r *productRepository) scanInt(ctx context.Context, query string, args []any) (int, error) {
	var rows entsql.Rows
	if err := r.store.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, common.NewAppError("DB_ERROR", "count products", fmt.Errorf("%w: %v", common.ErrDatabase, err))
	}
	defer rows.Close()

	n, err := entsql.ScanInt(rows)
	if err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return n, nil
}
