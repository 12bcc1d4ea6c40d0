//cmd/seeder/main.go
package main

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/unclebandit/outreach-scheduler/internal/calendar"
    "github.com/unclebandit/outreach-scheduler/internal/config"
    "github.com/unclebandit/outreach-scheduler/internal/db"
    "github.com/unclebandit/outreach-scheduler/internal/logger"
    "github.com/unclebandit/outreach-scheduler/internal/model"
)

type seedProspect struct {
    model.Prospect
    Send *model.ScheduledSend
}

var demoProspects = []struct {
    Name    string
    Status  string
    Company string
}{
    {"Ada Lovelace", "message_generated", "Analytical Engines"},
    {"Grace Hopper", "message_generated", "Navy Labs"},
    {"Alan Turing", "message_generated", "Bletchley"},
    {"Edsger Dijkstra", "message_generated", "THE"},
    {"Barbara Liskov", "message_generated", "CLU Systems"},
    {"Ken Thompson", "message_generated", "Bell Labs"},
    {"Margaret Hamilton", "researched", "Apollo Guidance"},
    {"Donald Knuth", "researched", "TeX Users"},
    {"Frances Allen", "new", "Compilers Inc"},
}

// demoSlots are (day, hour, minute) offsets from the week start. Two sends
// share 10:05 and 10:12 to show a collision group.
var demoSlots = [][3]int{
    {0, 9, 0},
    {1, 10, 5},
    {1, 10, 12},
    {2, 14, 30},
    {3, 8, 45},
    {4, 16, 0},
}

// buildSeed assigns scheduled sends to the first len(demoSlots) prospects.
func buildSeed(weekStart time.Time) []seedProspect {
    out := make([]seedProspect, 0, len(demoProspects))
    for i, d := range demoProspects {
        company := d.Company
        p := seedProspect{Prospect: model.Prospect{
            ID:      uuid.NewString(),
            Name:    d.Name,
            Status:  d.Status,
            Company: &company,
        }}
        if i < len(demoSlots) {
            slot := demoSlots[i]
            at := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day()+slot[0], slot[1], slot[2], 0, 0, weekStart.Location())
            p.Send = &model.ScheduledSend{
                ID:          uuid.NewString(),
                ProspectID:  p.ID,
                ScheduledAt: at,
                Status:      model.SendStatusScheduled,
                MessageText: fmt.Sprintf("Hi %s, quick question about %s.", d.Name, d.Company),
            }
        }
        out = append(out, p)
    }
    return out
}

func seed(ctx context.Context, conn *sql.DB, userID string, rows []seedProspect) error {
    tx, err := conn.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer tx.Rollback()

    for _, p := range rows {
        _, err := tx.ExecContext(ctx,
            `INSERT INTO prospects (id, user_id, name, status, company) VALUES ($1, $2, $3, $4, $5)`,
            p.ID, userID, p.Name, p.Status, p.Company,
        )
        if err != nil {
            return fmt.Errorf("insert prospect %s: %w", p.Name, err)
        }
        if p.Send == nil {
            continue
        }
        _, err = tx.ExecContext(ctx,
            `INSERT INTO scheduled_sends (id, user_id, prospect_id, scheduled_for, status, message_text) VALUES ($1, $2, $3, $4, $5, $6)`,
            p.Send.ID, userID, p.ID, p.Send.ScheduledAt, string(p.Send.Status), p.Send.MessageText,
        )
        if err != nil {
            return fmt.Errorf("insert send for %s: %w", p.Name, err)
        }
    }
    return tx.Commit()
}

func main() {
    cfg := config.MustLoad()
    log := logger.MustNew(cfg.Logger)
    defer log.Sync()

    ctx := context.Background()
    conn, err := db.Open(ctx, cfg.Database.DSN(), log)
    if err != nil {
        log.Fatal("failed to connect", zap.Error(err))
    }
    defer conn.Close()

    if _, err := conn.ExecContext(ctx, db.Schema); err != nil {
        log.Fatal("failed to apply schema", zap.Error(err))
    }
    log.Info("schema applied")

    loc, _ := cfg.Calendar.Location()
    weekStart := calendar.NewProjector(loc).WeekStart(time.Now())
    rows := buildSeed(weekStart)
    if err := seed(ctx, conn, cfg.Calendar.UserID, rows); err != nil {
        log.Fatal("failed to seed", zap.Error(err))
    }

    log.Info("database seeding completed", zap.String("user_id", cfg.Calendar.UserID), zap.Int("prospects", len(rows)))
}
