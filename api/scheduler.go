/*
scheduler.go - Automated payment calculation scheduler

PURPOSE:
  Periodically checks companies with auto-calculation enabled and runs the
  payment calculation for their most recently ended pay period once the
  configured calculation delay has elapsed.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - A company is due when now is past the ended period's end plus
    CalculationDay days, at CalculationTime
  - Companies whose ended period already has payments are skipped, and
    CalculateForPeriod itself skips employees with a non-voided payment,
    so a run is safe to repeat

CONFIGURATION:
  - CheckInterval: How often to check (default: 15 minutes)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewCalculationScheduler(store, handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: CalculatePayments endpoint (manual calculation)
  - payments/service.go: CalculateForPeriod
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// CalculationScheduler runs automatic payment calculation for companies
// that opted in.
type CalculationScheduler struct {
	Store         Store
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewCalculationScheduler creates a new scheduler.
func NewCalculationScheduler(store Store, handler *Handler) *CalculationScheduler {
	return &CalculationScheduler{
		Store:         store,
		Handler:       handler,
		CheckInterval: 15 * time.Minute,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (cs *CalculationScheduler) Start() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !cs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	cs.ticker = time.NewTicker(cs.CheckInterval)
	cs.wg.Add(1)

	go cs.run()

	log.Printf("[Scheduler] Started with check interval: %v", cs.CheckInterval)
}

// Stop stops the scheduler.
func (cs *CalculationScheduler) Stop() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.ticker != nil {
		cs.ticker.Stop()
		close(cs.stop)
		cs.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (cs *CalculationScheduler) run() {
	defer cs.wg.Done()

	// Run immediately on start
	cs.checkAndProcess()

	for {
		select {
		case <-cs.ticker.C:
			cs.checkAndProcess()
		case <-cs.stop:
			return
		}
	}
}

func (cs *CalculationScheduler) checkAndProcess() {
	ctx := context.Background()
	now := time.Now().UTC()

	companies, err := cs.Store.CompaniesWithAutoCalculate(ctx)
	if err != nil {
		log.Printf("[Scheduler] Error listing companies: %v", err)
		return
	}

	processedCount := 0
	skippedCount := 0

	for _, companyID := range companies {
		processed, err := cs.processCompany(ctx, companyID, now)
		if err != nil {
			log.Printf("[Scheduler] Error processing %s: %v", companyID, err)
			continue
		}
		if processed {
			processedCount++
		} else {
			skippedCount++
		}
	}

	if processedCount > 0 || skippedCount > 0 {
		log.Printf("[Scheduler] Completed: %d processed, %d skipped", processedCount, skippedCount)
	}
}

// processCompany runs the company's calculation if its most recently ended
// period is due. Returns true when a calculation ran.
func (cs *CalculationScheduler) processCompany(ctx context.Context, companyID payroll.CompanyID, now time.Time) (bool, error) {
	schedule, err := cs.Store.PaySchedule(ctx, companyID)
	if err != nil {
		return false, err
	}

	current, err := cs.Handler.Navigator.Current(ctx, companyID)
	if err != nil {
		return false, err
	}
	ended := current.Previous()

	due, err := calculationDueAt(ended, schedule)
	if err != nil {
		return false, err
	}
	if now.Before(due) {
		return false, nil
	}

	// Already calculated for this period: nothing to do.
	existing, err := cs.Store.PaymentsForPeriod(ctx, companyID, ended.Start, ended.End)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	created, err := cs.Handler.Payments.CalculateForPeriod(ctx, companyID, ended)
	if err != nil {
		return false, err
	}

	log.Printf("[Scheduler] Calculated %s %s: %d payments", companyID, ended, len(created))
	if schedule.NotifyEmail != "" {
		// TODO: send the calculation summary once an SMTP relay is configured.
		log.Printf("[Scheduler] Would notify %s for %s", schedule.NotifyEmail, companyID)
	}
	return true, nil
}

// calculationDueAt returns the instant a period's automatic calculation
// becomes due: CalculationDay days after the period's end, at
// CalculationTime.
func calculationDueAt(period payroll.Period, schedule *payroll.PaySchedule) (time.Time, error) {
	day := period.End.AddDays(schedule.CalculationDay + 1)

	at, err := time.Parse("15:04", schedule.CalculationTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		at.Hour(), at.Minute(), 0, 0, time.UTC), nil
}

// RunNow triggers an immediate check (for testing/admin).
func (cs *CalculationScheduler) RunNow() {
	cs.checkAndProcess()
}

// NextRunTime returns when the next scheduled check will occur.
func (cs *CalculationScheduler) NextRunTime() time.Time {
	return time.Now().Add(cs.CheckInterval)
}
