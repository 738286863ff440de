// File: internal/store/courses.go
package store

import (
	"context"
	"fmt"
	"net/url"

	"devcamper/internal/database"
	"devcamper/internal/model"
	"devcamper/internal/query"

	"github.com/jackc/pgx/v5"
)

const courseColumns = `id, bootcamp_id, user_id, title, description, weeks, tuition, minimum_skill, scholarship_available, created_at`

var CourseSchema = query.Schema{
	Table: "courses",
	Fields: []query.Field{
		{Name: "id", Column: "id", Kind: query.Int},
		{Name: "bootcamp", Column: "bootcamp_id", Kind: query.Int},
		{Name: "user", Column: "user_id", Kind: query.Int},
		{Name: "title", Column: "title", Kind: query.Text},
		{Name: "description", Column: "description", Kind: query.Text},
		{Name: "weeks", Column: "weeks", Kind: query.Text},
		{Name: "tuition", Column: "tuition", Kind: query.Float},
		{Name: "minimumSkill", Column: "minimum_skill", Kind: query.Text},
		{Name: "scholarshipAvailable", Column: "scholarship_available", Kind: query.Bool},
		{Name: "createdAt", Column: "created_at", Kind: query.Time},
	},
}

func scanCourse(row pgx.Row) (*model.Course, error) {
	c := &model.Course{}
	err := row.Scan(
		&c.ID,
		&c.BootcampID,
		&c.UserID,
		&c.Title,
		&c.Description,
		&c.Weeks,
		&c.Tuition,
		&c.MinimumSkill,
		&c.ScholarshipAvailable,
		&c.CreatedAt,
	)
	return c, err
}

func GetCourseByID(ctx context.Context, db database.DB, id int) (*model.Course, error) {
	c, err := scanCourse(db.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("GetCourseByID: %w", err)
	}
	return c, nil
}

// CreateCourse 新增課程後重新計算 bootcamp 的平均學費
func CreateCourse(ctx context.Context, db database.DB, c *model.Course) (*model.Course, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO courses (bootcamp_id, user_id, title, description, weeks, tuition, minimum_skill, scholarship_available)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		c.BootcampID,
		c.UserID,
		c.Title,
		c.Description,
		c.Weeks,
		c.Tuition,
		c.MinimumSkill,
		c.ScholarshipAvailable,
	)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateCourse: %w", err)
	}
	if err := UpdateAverageCost(ctx, db, c.BootcampID); err != nil {
		return nil, err
	}
	return c, nil
}

func UpdateCourse(ctx context.Context, db database.DB, c *model.Course) error {
	tag, err := db.Exec(ctx,
		`UPDATE courses SET title = $1, description = $2, weeks = $3, tuition = $4,
			minimum_skill = $5, scholarship_available = $6
		 WHERE id = $7`,
		c.Title,
		c.Description,
		c.Weeks,
		c.Tuition,
		c.MinimumSkill,
		c.ScholarshipAvailable,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateCourse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateCourse: %w", pgx.ErrNoRows)
	}
	return UpdateAverageCost(ctx, db, c.BootcampID)
}

func DeleteCourse(ctx context.Context, db database.DB, c *model.Course) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM courses WHERE id = $1`,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("DeleteCourse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteCourse: %w", pgx.ErrNoRows)
	}
	return UpdateAverageCost(ctx, db, c.BootcampID)
}

// UpdateAverageCost 平均學費無條件進位到十位數；沒有課程時為 NULL
func UpdateAverageCost(ctx context.Context, db database.DB, bootcampID int) error {
	_, err := db.Exec(ctx,
		`UPDATE bootcamps
		 SET average_cost = (SELECT CEIL(AVG(tuition) / 10) * 10 FROM courses WHERE bootcamp_id = $1)
		 WHERE id = $1`,
		bootcampID,
	)
	if err != nil {
		return fmt.Errorf("UpdateAverageCost: %w", err)
	}
	return nil
}

func listCoursesByBootcamps(ctx context.Context, db database.DB, bootcampIDs []int) ([]model.Course, error) {
	rows, err := db.Query(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE bootcamp_id = ANY($1) ORDER BY id`,
		bootcampIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("listCoursesByBootcamps: %w", err)
	}
	defer rows.Close()

	var list []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("listCoursesByBootcamps scan: %w", err)
		}
		list = append(list, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listCoursesByBootcamps rows: %w", err)
	}
	return list, nil
}

// GetCoursesByBootcamp 回傳單一 bootcamp 的課程，沒有課程時為空 slice
func GetCoursesByBootcamp(ctx context.Context, db database.DB, bootcampID int) ([]model.Course, error) {
	list, err := listCoursesByBootcamps(ctx, db, []int{bootcampID})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Course{}
	}
	return list, nil
}

// GetBootcampRefs 取得 bootcamp 摘要 (id, name, description)，供 course 與 review 內嵌
func GetBootcampRefs(ctx context.Context, db database.DB, ids []int) (map[int]*model.BootcampRef, error) {
	refs := make(map[int]*model.BootcampRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	rows, err := db.Query(ctx,
		`SELECT id, name, description FROM bootcamps WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("GetBootcampRefs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		ref := &model.BootcampRef{}
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Description); err != nil {
			return nil, fmt.Errorf("GetBootcampRefs scan: %w", err)
		}
		refs[ref.ID] = ref
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetBootcampRefs rows: %w", err)
	}
	return refs, nil
}

// PopulateBootcamp 將列表中的 bootcamp ID 換成摘要物件
func PopulateBootcamp(ctx context.Context, db database.DB, rows []query.Row) error {
	var ids []int
	for _, r := range rows {
		if id, ok := r.Int("bootcamp"); ok {
			ids = append(ids, id)
		}
	}
	refs, err := GetBootcampRefs(ctx, db, ids)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if id, ok := r.Int("bootcamp"); ok {
			if ref, found := refs[id]; found {
				r["bootcamp"] = ref
			}
		}
	}
	return nil
}

// ListCourses 的 bootcampID 大於 0 時只列出該 bootcamp 的課程
func ListCourses(ctx context.Context, db database.DB, params url.Values, bootcampID int) (*query.Result, error) {
	return query.Run(ctx, db, CourseSchema, params, query.Options{
		Scope:    bootcampScope(bootcampID),
		Populate: PopulateBootcamp,
	})
}

func bootcampScope(bootcampID int) []query.Scope {
	if bootcampID <= 0 {
		return nil
	}
	return []query.Scope{{Column: "bootcamp_id", Value: bootcampID}}
}
