// File: cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"devcamper/internal/database"
	"devcamper/internal/geo"
	"devcamper/internal/model"
	"devcamper/internal/service"
	"devcamper/internal/store"

	"github.com/sirupsen/logrus"
)

// seedUser 種子檔中的使用者帶明文密碼，匯入時才雜湊
type seedUser struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	Password string     `json:"password"`
}

var (
	newPgxPool      = database.NewPgxPool
	runMigrationsFn = database.RunMigrations
	newGeocoder     = func(url string, log *logrus.Logger) geo.Geocoder { return geo.NewClient(url, log) }
	hashPassword    = service.HashPassword
	createUser      = store.CreateUser
	createBootcamp  = store.CreateBootcamp
	createCourse    = store.CreateCourse
	createReview    = store.CreateReview
	exitFunc        = os.Exit
)

const truncateSQL = `TRUNCATE reviews, courses, bootcamps, users RESTART IDENTITY CASCADE`

func run(args []string, log *logrus.Logger) error {
	fs := flag.NewFlagSet("seeder", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dir := fs.String("import", "", "匯入指定目錄下的 users/bootcamps/courses/reviews.json")
	destroy := fs.Bool("destroy", false, "清空所有資料")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" && !*destroy {
		return errors.New("usage: seeder -import <dir> | -destroy")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("環境變數 DATABASE_URL 未設定")
	}
	ctx := context.Background()

	if err := runMigrationsFn(dbURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}
	db, err := newPgxPool(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %v", err)
	}
	defer db.Close()

	if *destroy {
		if _, err := db.Exec(ctx, truncateSQL); err != nil {
			return fmt.Errorf("destroy: %w", err)
		}
		log.Info("Data destroyed")
		return nil
	}

	s := &seeder{db: db, log: log, users: map[int]int{}, bootcamps: map[int]int{}}
	if url := os.Getenv("GEOCODER_URL"); url != "" {
		s.geocoder = newGeocoder(url, log)
	}
	if err := s.importDir(ctx, *dir); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"users":     len(s.users),
		"bootcamps": len(s.bootcamps),
	}).Info("Data imported")
	return nil
}

// seeder 匯入時將檔案中的 id 對應到資料庫產生的 id
type seeder struct {
	db       database.DB
	log      *logrus.Logger
	geocoder geo.Geocoder

	users     map[int]int
	bootcamps map[int]int
}

func readJSON(dir, name string, v any) error {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (s *seeder) importDir(ctx context.Context, dir string) error {
	var (
		users     []seedUser
		bootcamps []model.Bootcamp
		courses   []model.Course
		reviews   []model.Review
	)
	for name, v := range map[string]any{
		"users.json":     &users,
		"bootcamps.json": &bootcamps,
		"courses.json":   &courses,
		"reviews.json":   &reviews,
	} {
		if err := readJSON(dir, name, v); err != nil {
			return err
		}
	}

	for _, su := range users {
		hash, err := hashPassword(su.Password)
		if err != nil {
			return err
		}
		u, err := createUser(ctx, s.db, &model.User{
			Name:         su.Name,
			Email:        strings.ToLower(su.Email),
			Role:         su.Role,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}
		s.users[su.ID] = u.ID
	}

	for i := range bootcamps {
		b := &bootcamps[i]
		seedID := b.ID
		owner, ok := s.users[b.UserID]
		if !ok {
			return fmt.Errorf("bootcamp %q: unknown user %d", b.Name, b.UserID)
		}
		b.UserID = owner
		if b.Location.FormattedAddress == "" && s.geocoder != nil {
			loc, err := s.geocoder.Geocode(ctx, b.Address)
			if err != nil {
				return fmt.Errorf("bootcamp %q: %w", b.Name, err)
			}
			b.Location = *loc
		}
		created, err := createBootcamp(ctx, s.db, b, true)
		if err != nil {
			return err
		}
		s.bootcamps[seedID] = created.ID
	}

	for i := range courses {
		c := &courses[i]
		if err := s.remap(&c.BootcampID, &c.UserID); err != nil {
			return fmt.Errorf("course %q: %w", c.Title, err)
		}
		if _, err := createCourse(ctx, s.db, c); err != nil {
			return err
		}
	}

	for i := range reviews {
		r := &reviews[i]
		if err := s.remap(&r.BootcampID, &r.UserID); err != nil {
			return fmt.Errorf("review %q: %w", r.Title, err)
		}
		if _, err := createReview(ctx, s.db, r); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) remap(bootcampID, userID *int) error {
	b, ok := s.bootcamps[*bootcampID]
	if !ok {
		return fmt.Errorf("unknown bootcamp %d", *bootcampID)
	}
	u, ok := s.users[*userID]
	if !ok {
		return fmt.Errorf("unknown user %d", *userID)
	}
	*bootcampID, *userID = b, u
	return nil
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if err := run(os.Args[1:], log); err != nil {
		log.WithError(err).Error("seeder failed")
		exitFunc(1)
	}
}
