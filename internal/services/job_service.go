package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sjperalta/salesdesk-api/internal/jobs"
)

// RecurringJob is the last known state of a scheduled job.
type RecurringJob struct {
	Name      string     `json:"name"`
	Interval  string     `json:"interval"`
	LastRun   *time.Time `json:"last_run"`
	LastError string     `json:"last_error,omitempty"`
	Runs      int64      `json:"runs"`
}

// JobStatus is the payload of GET /jobs/status.
type JobStatus struct {
	Worker    jobs.WorkerStats `json:"worker"`
	Recurring []RecurringJob   `json:"recurring"`
}

// JobService registers the recurring jobs on the worker and remembers how
// each one last went.
type JobService struct {
	worker *jobs.Worker
	mu     sync.Mutex
	jobs   map[string]*RecurringJob
	now    func() time.Time
}

func NewJobService(worker *jobs.Worker) *JobService {
	return &JobService{
		worker: worker,
		jobs:   make(map[string]*RecurringJob),
		now:    time.Now,
	}
}

// Every schedules job under name. With immediate it also runs at startup.
func (s *JobService) Every(name string, interval time.Duration, immediate bool, job jobs.Job) {
	s.mu.Lock()
	s.jobs[name] = &RecurringJob{Name: name, Interval: interval.String()}
	s.mu.Unlock()

	tracked := s.track(name, job)
	if immediate {
		s.worker.ScheduleEveryImmediate(interval, tracked)
		return
	}
	s.worker.ScheduleEvery(interval, tracked)
}

func (s *JobService) track(name string, job jobs.Job) jobs.Job {
	return func(ctx context.Context) error {
		err := job(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		rj := s.jobs[name]
		ran := s.now()
		rj.LastRun = &ran
		rj.Runs++
		rj.LastError = ""
		if err != nil {
			rj.LastError = err.Error()
		}
		return err
	}
}

// Status reports worker counters and the recurring jobs sorted by name.
func (s *JobService) Status() JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	recurring := make([]RecurringJob, 0, len(s.jobs))
	for _, rj := range s.jobs {
		recurring = append(recurring, *rj)
	}
	sort.Slice(recurring, func(i, j int) bool { return recurring[i].Name < recurring[j].Name })

	return JobStatus{Worker: s.worker.GetStats(), Recurring: recurring}
}
