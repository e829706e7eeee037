package services_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zackiles/bluebird-queue/internal/models"
	"github.com/zackiles/bluebird-queue/internal/services"
	"github.com/zackiles/bluebird-queue/internal/store"
	"github.com/zackiles/bluebird-queue/internal/store/migrations"
	"github.com/zackiles/bluebird-queue/pkg/batch"
	srvErrors "github.com/zackiles/bluebird-queue/pkg/errors"
	"github.com/zackiles/bluebird-queue/pkg/future"
)

func TestServices(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Services Suite")
}

// echoBuilder resolves each job with its own id.
type echoBuilder struct{}

func (echoBuilder) Build(id string) []batch.WorkItem {
	return []batch.WorkItem{
		batch.FromFactory(func() *future.Future[any] {
			return future.Resolved[any](id)
		}),
	}
}

// failingBuilder rejects every job.
type failingBuilder struct{}

func (failingBuilder) Build(id string) []batch.WorkItem {
	return []batch.WorkItem{
		batch.FromFactory(func() *future.Future[any] {
			return future.Rejected[any](errors.New("job " + id + " failed"))
		}),
	}
}

var _ = Describe("RunService", func() {
	var (
		ctx context.Context
		db  *sql.DB
		st  *store.Store
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())

		st = store.NewStore(db)
	})

	AfterEach(func() {
		if st != nil {
			st.Close()
		}
	})

	newService := func(builder models.JobBuilder) *services.RunService {
		return services.NewRunService(builder, st, batch.Options{Concurrency: 2})
	}

	Describe("StartRun", func() {
		It("should run all jobs and persist the completed record", func() {
			srv := newService(echoBuilder{})

			id, err := srv.StartRun(ctx, []string{"a", "b", "c"})
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() models.RunState {
				status, _, err := srv.Status(ctx, id)
				Expect(err).NotTo(HaveOccurred())
				return status.State
			}, 5*time.Second).Should(Equal(models.RunStateCompleted))

			Eventually(func() (models.RunState, error) {
				run, err := st.Run().Get(ctx, id)
				if err != nil {
					return "", err
				}
				return run.State, nil
			}, 2*time.Second).Should(Equal(models.RunStateCompleted))

			run, err := st.Run().Get(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(run.JobCount).To(Equal(3))
			Expect(run.ResultCount).To(Equal(3))
		})

		It("should reject an empty submission", func() {
			srv := newService(echoBuilder{})

			_, err := srv.StartRun(ctx, nil)
			Expect(err).To(HaveOccurred())
		})

		It("should record the first failure and mark the run failed", func() {
			srv := newService(failingBuilder{})

			id, err := srv.StartRun(ctx, []string{"x"})
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() models.RunState {
				status, _, err := srv.Status(ctx, id)
				Expect(err).NotTo(HaveOccurred())
				return status.State
			}, 5*time.Second).Should(Equal(models.RunStateError))

			Eventually(func() (string, error) {
				run, err := st.Run().Get(ctx, id)
				if err != nil {
					return "", err
				}
				return run.Error, nil
			}, 2*time.Second).Should(Equal("job x failed"))
		})
	})

	Describe("Status", func() {
		It("should return a typed error for an unknown run", func() {
			srv := newService(echoBuilder{})

			_, _, err := srv.Status(ctx, uuid.New())
			Expect(srvErrors.IsRunNotFound(err)).To(BeTrue())
		})

		It("should fall back to the persisted log for finished runs", func() {
			record := &models.Run{
				ID:       uuid.New(),
				State:    models.RunStateCompleted,
				JobCount: 1,
			}
			Expect(st.Run().Save(ctx, record)).To(Succeed())

			srv := newService(echoBuilder{})
			status, pending, err := srv.Status(ctx, record.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.State).To(Equal(models.RunStateCompleted))
			Expect(pending).To(BeZero())
		})
	})

	Describe("Drain", func() {
		It("should return a typed error for an unknown run", func() {
			srv := newService(echoBuilder{})

			err := srv.Drain(uuid.New())
			Expect(srvErrors.IsRunNotFound(err)).To(BeTrue())
		})
	})

	Describe("List", func() {
		It("should page through the persisted run log", func() {
			srv := newService(echoBuilder{})

			for range 3 {
				Expect(st.Run().Save(ctx, &models.Run{
					ID:    uuid.New(),
					State: models.RunStateCompleted,
				})).To(Succeed())
			}

			result, err := srv.List(ctx, services.RunListParams{Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Runs).To(HaveLen(2))
			Expect(result.Total).To(Equal(3))
		})
	})
})

var _ = Describe("ReportService", func() {
	It("should export the run log as a workbook", func() {
		ctx := context.Background()

		db, err := store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())
		st := store.NewStore(db)
		defer st.Close()

		Expect(st.Run().Save(ctx, &models.Run{
			ID:    uuid.New(),
			State: models.RunStateCompleted,
		})).To(Succeed())

		f, err := services.NewReportService(st).ExportRuns(ctx)
		Expect(err).NotTo(HaveOccurred())

		rows, err := f.GetRows("Runs")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0][0]).To(Equal("ID"))
	})
})
