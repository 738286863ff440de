// File: internal/store/bootcamps.go
package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"devcamper/internal/database"
	"devcamper/internal/model"
	"devcamper/internal/query"

	"github.com/jackc/pgx/v5"
)

// EarthRadiusMiles 半徑搜尋使用的地球半徑
const EarthRadiusMiles = 3963.0

// ErrBootcampLimit 非管理員已經發佈過 bootcamp
var ErrBootcampLimit = errors.New("user has already published a bootcamp")

const bootcampColumns = `id, user_id, name, slug, description, website, phone, email, address,
	COALESCE(location_lat, 0), COALESCE(location_lng, 0), formatted_address, street, city, state, zipcode, country,
	careers, average_rating, average_cost, photo, housing, job_assistance, job_guarantee, accept_gi, created_at`

var BootcampSchema = query.Schema{
	Table: "bootcamps",
	Fields: []query.Field{
		{Name: "id", Column: "id", Kind: query.Int},
		{Name: "user", Column: "user_id", Kind: query.Int},
		{Name: "name", Column: "name", Kind: query.Text},
		{Name: "slug", Column: "slug", Kind: query.Text},
		{Name: "description", Column: "description", Kind: query.Text},
		{Name: "website", Column: "website", Kind: query.Text},
		{Name: "phone", Column: "phone", Kind: query.Text},
		{Name: "email", Column: "email", Kind: query.Text},
		{Name: "address", Column: "address", Kind: query.Text},
		{Name: "location.latitude", Column: "location_lat", Kind: query.Float},
		{Name: "location.longitude", Column: "location_lng", Kind: query.Float},
		{Name: "location.formattedAddress", Column: "formatted_address", Kind: query.Text},
		{Name: "location.street", Column: "street", Kind: query.Text},
		{Name: "location.city", Column: "city", Kind: query.Text},
		{Name: "location.state", Column: "state", Kind: query.Text},
		{Name: "location.zipcode", Column: "zipcode", Kind: query.Text},
		{Name: "location.country", Column: "country", Kind: query.Text},
		{Name: "careers", Column: "careers", Kind: query.TextArray},
		{Name: "averageRating", Column: "average_rating", Kind: query.Float},
		{Name: "averageCost", Column: "average_cost", Kind: query.Float},
		{Name: "photo", Column: "photo", Kind: query.Text},
		{Name: "housing", Column: "housing", Kind: query.Bool},
		{Name: "jobAssistance", Column: "job_assistance", Kind: query.Bool},
		{Name: "jobGuarantee", Column: "job_guarantee", Kind: query.Bool},
		{Name: "acceptGi", Column: "accept_gi", Kind: query.Bool},
		{Name: "createdAt", Column: "created_at", Kind: query.Time},
	},
}

func scanBootcamp(row pgx.Row) (*model.Bootcamp, error) {
	b := &model.Bootcamp{}
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Name,
		&b.Slug,
		&b.Description,
		&b.Website,
		&b.Phone,
		&b.Email,
		&b.Address,
		&b.Location.Latitude,
		&b.Location.Longitude,
		&b.Location.FormattedAddress,
		&b.Location.Street,
		&b.Location.City,
		&b.Location.State,
		&b.Location.Zipcode,
		&b.Location.Country,
		&b.Careers,
		&b.AverageRating,
		&b.AverageCost,
		&b.Photo,
		&b.Housing,
		&b.JobAssistance,
		&b.JobGuarantee,
		&b.AcceptGI,
		&b.CreatedAt,
	)
	return b, err
}

// Slugify 將名稱轉為小寫並以 "-" 連接英數字
func Slugify(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

func GetBootcampByID(ctx context.Context, db database.DB, id int) (*model.Bootcamp, error) {
	b, err := scanBootcamp(db.QueryRow(ctx,
		`SELECT `+bootcampColumns+` FROM bootcamps WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("GetBootcampByID: %w", err)
	}
	return b, nil
}

// CreateBootcamp 以條件式 INSERT 同時檢查「每位非管理員只能有一個 bootcamp」，
// 沒有插入任何資料列時回傳 ErrBootcampLimit
func CreateBootcamp(ctx context.Context, db database.DB, b *model.Bootcamp, admin bool) (*model.Bootcamp, error) {
	b.Slug = Slugify(b.Name)
	if b.Photo == "" {
		b.Photo = model.DefaultPhoto
	}
	if b.Careers == nil {
		b.Careers = []string{}
	}
	row := db.QueryRow(ctx,
		`INSERT INTO bootcamps (user_id, name, slug, description, website, phone, email, address,
			location_lat, location_lng, formatted_address, street, city, state, zipcode, country,
			careers, photo, housing, job_assistance, job_guarantee, accept_gi)
		 SELECT $1::int, $2::text, $3::text, $4::text, $5::text, $6::text, $7::text, $8::text,
			$9::float8, $10::float8, $11::text, $12::text, $13::text, $14::text, $15::text, $16::text,
			$17::text[], $18::text, $19::bool, $20::bool, $21::bool, $22::bool
		 WHERE $23::bool OR NOT EXISTS (SELECT 1 FROM bootcamps WHERE user_id = $1)
		 RETURNING id, created_at`,
		b.UserID,
		b.Name,
		b.Slug,
		b.Description,
		b.Website,
		b.Phone,
		b.Email,
		b.Address,
		b.Location.Latitude,
		b.Location.Longitude,
		b.Location.FormattedAddress,
		b.Location.Street,
		b.Location.City,
		b.Location.State,
		b.Location.Zipcode,
		b.Location.Country,
		b.Careers,
		b.Photo,
		b.Housing,
		b.JobAssistance,
		b.JobGuarantee,
		b.AcceptGI,
		admin,
	)
	if err := row.Scan(&b.ID, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBootcampLimit
		}
		return nil, fmt.Errorf("CreateBootcamp: %w", err)
	}
	return b, nil
}

// UpdateBootcamp 覆寫可編輯欄位，slug 依名稱重新產生
func UpdateBootcamp(ctx context.Context, db database.DB, b *model.Bootcamp) error {
	b.Slug = Slugify(b.Name)
	tag, err := db.Exec(ctx,
		`UPDATE bootcamps SET name = $1, slug = $2, description = $3, website = $4, phone = $5,
			email = $6, address = $7, location_lat = $8, location_lng = $9, formatted_address = $10,
			street = $11, city = $12, state = $13, zipcode = $14, country = $15, careers = $16,
			housing = $17, job_assistance = $18, job_guarantee = $19, accept_gi = $20
		 WHERE id = $21`,
		b.Name,
		b.Slug,
		b.Description,
		b.Website,
		b.Phone,
		b.Email,
		b.Address,
		b.Location.Latitude,
		b.Location.Longitude,
		b.Location.FormattedAddress,
		b.Location.Street,
		b.Location.City,
		b.Location.State,
		b.Location.Zipcode,
		b.Location.Country,
		b.Careers,
		b.Housing,
		b.JobAssistance,
		b.JobGuarantee,
		b.AcceptGI,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateBootcamp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateBootcamp: %w", pgx.ErrNoRows)
	}
	return nil
}

func UpdateBootcampPhoto(ctx context.Context, db database.DB, id int, photo string) error {
	_, err := db.Exec(ctx,
		`UPDATE bootcamps SET photo = $1 WHERE id = $2`,
		photo,
		id,
	)
	if err != nil {
		return fmt.Errorf("UpdateBootcampPhoto: %w", err)
	}
	return nil
}

// DeleteBootcamp 的 courses 與 reviews 由外鍵 ON DELETE CASCADE 一併刪除
func DeleteBootcamp(ctx context.Context, db database.DB, id int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM bootcamps WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("DeleteBootcamp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteBootcamp: %w", pgx.ErrNoRows)
	}
	return nil
}

// GetBootcampsInRadius 以 haversine 公式找出距離 (英里) 內的 bootcamp
func GetBootcampsInRadius(ctx context.Context, db database.DB, lat, lng, miles float64) ([]model.Bootcamp, error) {
	rows, err := db.Query(ctx,
		`SELECT `+bootcampColumns+` FROM bootcamps
		 WHERE location_lat IS NOT NULL AND location_lng IS NOT NULL
		   AND $3 * 2 * ASIN(LEAST(1, SQRT(
		         POWER(SIN(RADIANS(location_lat - $1) / 2), 2) +
		         COS(RADIANS($1)) * COS(RADIANS(location_lat)) *
		         POWER(SIN(RADIANS(location_lng - $2) / 2), 2)
		       ))) <= $4
		 ORDER BY id`,
		lat,
		lng,
		EarthRadiusMiles,
		miles,
	)
	if err != nil {
		return nil, fmt.Errorf("GetBootcampsInRadius: %w", err)
	}
	defer rows.Close()

	list := make([]model.Bootcamp, 0)
	for rows.Next() {
		b, err := scanBootcamp(rows)
		if err != nil {
			return nil, fmt.Errorf("GetBootcampsInRadius scan: %w", err)
		}
		list = append(list, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetBootcampsInRadius rows: %w", err)
	}
	return list, nil
}

// PopulateCourses 將每個 bootcamp 的 courses 內嵌進列表結果
func PopulateCourses(ctx context.Context, db database.DB, rows []query.Row) error {
	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		if id, ok := r.Int("id"); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	courses, err := listCoursesByBootcamps(ctx, db, ids)
	if err != nil {
		return err
	}
	byBootcamp := make(map[int][]model.Course, len(ids))
	for _, c := range courses {
		byBootcamp[c.BootcampID] = append(byBootcamp[c.BootcampID], c)
	}
	for _, r := range rows {
		id, ok := r.Int("id")
		if !ok {
			continue
		}
		list := byBootcamp[id]
		if list == nil {
			list = []model.Course{}
		}
		r["courses"] = list
	}
	return nil
}

func ListBootcamps(ctx context.Context, db database.DB, params url.Values) (*query.Result, error) {
	return query.Run(ctx, db, BootcampSchema, params, query.Options{Populate: PopulateCourses})
}
