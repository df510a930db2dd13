package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/careflow/appointment-booking/internal/appointment"
	"github.com/careflow/appointment-booking/internal/db"
)

var reasons = []string{
	"annual checkup",
	"flu symptoms",
	"follow-up visit",
	"vaccination",
	"back pain",
	"skin rash",
	"blood pressure review",
	"lab results discussion",
	"migraine",
	"physical therapy referral",
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	count := flag.Int("count", 200, "number of appointments to seed")
	flag.Parse()

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	repo := appointment.NewPgRepository(pool)

	if err := seedAppointments(context.Background(), repo, *count); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

// seedAppointments writes fake appointments straight through the
// repository. State only: the drained events are discarded, nothing is
// published to the broker.
func seedAppointments(ctx context.Context, repo appointment.Repository, count int) error {
	log.Printf("seeding %d appointments", count)

	seeded := 0
	for i := 0; i < count; i++ {
		scheduledAt := time.Now().
			Add(time.Duration(gofakeit.Number(2, 24*30)) * time.Hour).
			Truncate(time.Minute)
		reason := reasons[gofakeit.Number(0, len(reasons)-1)]

		a, err := appointment.New(
			gofakeit.Name(),
			gofakeit.Email(),
			gofakeit.Phone(),
			scheduledAt,
			reason,
		)
		if err != nil {
			return err
		}
		a.DrainEvents()

		// Roughly a third of seeded appointments get confirmed so the
		// upcoming listing shows both statuses.
		if gofakeit.Number(0, 2) == 0 {
			if err := a.Confirm(); err != nil {
				return err
			}
			a.DrainEvents()
		}

		if err := repo.Save(ctx, a); err != nil {
			return err
		}

		seeded++
		if seeded%100 == 0 {
			log.Printf("appointments seeded: %d/%d", seeded, count)
		}
	}

	log.Println("appointments seeded")
	return nil
}
