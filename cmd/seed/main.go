// Command canela-seed loads the task library and costume catalog into the
// database. Rows are keyed by content, so re-running is safe.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/canela-app/canela/internal/migrate"
	"github.com/canela-app/canela/internal/model"
)

type libraryEntry struct {
	description string
	category    model.TaskCategory
	coins       int
}

type costumeEntry struct {
	name     string
	category model.CostumeCategory
	image    string
	price    int
}

var defaultLibrary = []libraryEntry{
	{"Go for a 30-minute walk", model.CategoryPhysical, 5},
	{"Do 20 squats", model.CategoryPhysical, 5},
	{"Stretch for 10 minutes", model.CategoryPhysical, 5},
	{"Take the stairs all day", model.CategoryPhysical, 5},
	{"Drink 8 glasses of water", model.CategoryPhysical, 5},
	{"Read 10 pages of a book", model.CategoryMental, 10},
	{"Write 3 things you're grateful for", model.CategoryMental, 10},
	{"Meditate for 5 minutes", model.CategoryMental, 10},
	{"Learn one new word", model.CategoryMental, 10},
	{"Spend an hour without your phone", model.CategoryMental, 10},
	{"Call a friend or family member", model.CategorySocial, 15},
	{"Give someone a genuine compliment", model.CategorySocial, 15},
	{"Write a thank-you message", model.CategorySocial, 15},
	{"Have lunch with a colleague", model.CategorySocial, 15},
	{"Introduce yourself to someone new", model.CategorySocial, 15},
}

var defaultCostumes = []costumeEntry{
	{"Top Hat", model.CostumeHat, "/img/costumes/hat1.png", 25},
	{"Beanie", model.CostumeHat, "/img/costumes/hat2.png", 15},
	{"Party Hat", model.CostumeHat, "/img/costumes/hat3.png", 10},
	{"Magic Wand", model.CostumeHand, "/img/costumes/wand.png", 30},
	{"Balloon", model.CostumeHand, "/img/costumes/balloon.png", 10},
	{"Tiny Dragon", model.CostumeCompanion, "/img/costumes/dragon.png", 50},
	{"Parrot", model.CostumeCompanion, "/img/costumes/parrot.png", 35},
	{"Cape", model.CostumeOther, "/img/costumes/cape.png", 40},
	{"Sunglasses", model.CostumeOther, "/img/costumes/shades.png", 20},
}

func main() {
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL DSN")
	runMigrations := flag.Bool("migrate", true, "apply migrations before seeding")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if *dsn == "" {
		logger.Fatal("missing DSN (--dsn or DATABASE_URL)")
	}

	ctx := context.Background()

	if *runMigrations {
		if err := migrate.Up(ctx, *dsn); err != nil {
			logger.Fatal("migrate up", zap.Error(err))
		}
	}

	pool, err := pgxpool.New(ctx, *dsn)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	defer pool.Close()

	const insLibrary = `
INSERT INTO tasks_library (id, description, category, coins)
SELECT $1, $2, $3, $4
WHERE NOT EXISTS (SELECT 1 FROM tasks_library WHERE description=$2)`
	for _, e := range defaultLibrary {
		id, err := uuid.NewV4()
		if err != nil {
			logger.Fatal("uuid", zap.Error(err))
		}
		if _, err := pool.Exec(ctx, insLibrary, id, e.description, e.category, e.coins); err != nil {
			logger.Fatal("seed library", zap.String("description", e.description), zap.Error(err))
		}
	}
	logger.Info("task library seeded", zap.Int("entries", len(defaultLibrary)))

	const insCostume = `
INSERT INTO costumes (id, name, category, image, price)
SELECT $1, $2, $3, $4, $5
WHERE NOT EXISTS (SELECT 1 FROM costumes WHERE name=$2)`
	for _, c := range defaultCostumes {
		id, err := uuid.NewV4()
		if err != nil {
			logger.Fatal("uuid", zap.Error(err))
		}
		if _, err := pool.Exec(ctx, insCostume, id, c.name, c.category, c.image, c.price); err != nil {
			logger.Fatal("seed costumes", zap.String("name", c.name), zap.Error(err))
		}
	}
	logger.Info("costume catalog seeded", zap.Int("entries", len(defaultCostumes)))
}
