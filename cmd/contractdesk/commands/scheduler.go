package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/contractdesk/internal/scheduler"
	"github.com/wonny/contractdesk/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run or inspect scheduled jobs",
	Long: `Run or inspect scheduled jobs.

Jobs:
  expiring_digest  daily at 08:00, logs contracts expiring within 30 days
  dashboard_warm   every 10 minutes, precomputes the default dashboard

Subcommands:
  start   - run the scheduler until interrupted
  list    - list registered jobs
  run     - run one job now and print the result

Example:
  go run ./cmd/contractdesk scheduler start
  go run ./cmd/contractdesk scheduler run expiring_digest`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// newScheduler registers every job. feed may be nil when no websocket hub runs
// in this process.
func newScheduler(a *app, feed jobs.Broadcaster) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.loc, a.log)

	thisMonth := func() (int, int) {
		now := a.dashboard.Now()
		return now.Year(), int(now.Month())
	}

	for _, job := range []scheduler.Job{
		jobs.NewExpiringDigestJob(a.dashboard, feed, a.log),
		jobs.NewDashboardWarmJob(a.dashboard, thisMonth, a.log),
	} {
		if err := sched.AddJob(job); err != nil {
			return nil, err
		}
	}
	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a, nil)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	sched.Start()

	fmt.Println("Scheduler started. Registered jobs:")
	for _, name := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("Press Ctrl+C to stop")

	<-ctx.Done()
	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a, nil)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	for name, st := range sched.GetJobStats() {
		fmt.Printf("  - %-16s %s\n", name, st.Schedule)
	}
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a, nil)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	sched.WithRetry(0, time.Second)

	result, err := sched.RunJob(args[0])
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("job %s failed: %s", result.JobName, result.Error)
	}

	fmt.Printf("Job %s completed in %s\n", result.JobName, result.Duration.Round(time.Millisecond))
	return nil
}
