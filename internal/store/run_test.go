package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zackiles/bluebird-queue/internal/models"
	"github.com/zackiles/bluebird-queue/internal/store"
	"github.com/zackiles/bluebird-queue/internal/store/migrations"
	srvErrors "github.com/zackiles/bluebird-queue/pkg/errors"
)

func TestStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Store Suite")
}

var _ = Describe("RunStore", func() {
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

	newRun := func(state models.RunState) *models.Run {
		return &models.Run{
			ID:          uuid.New(),
			State:       state,
			JobCount:    3,
			ResultCount: 3,
		}
	}

	Describe("Save and Get", func() {
		It("should roundtrip a run", func() {
			run := newRun(models.RunStateCompleted)
			Expect(st.Run().Save(ctx, run)).To(Succeed())

			got, err := st.Run().Get(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(run.ID))
			Expect(got.State).To(Equal(models.RunStateCompleted))
			Expect(got.JobCount).To(Equal(3))
			Expect(got.ResultCount).To(Equal(3))
			Expect(got.CreatedAt).NotTo(BeZero())
		})

		It("should return a typed error for a missing run", func() {
			_, err := st.Run().Get(ctx, uuid.New())
			Expect(srvErrors.IsRunNotFound(err)).To(BeTrue())
		})

		It("should update an existing run on conflict", func() {
			run := newRun(models.RunStateRunning)
			Expect(st.Run().Save(ctx, run)).To(Succeed())

			run.State = models.RunStateError
			run.Error = "this failed"
			Expect(st.Run().Save(ctx, run)).To(Succeed())

			got, err := st.Run().Get(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.State).To(Equal(models.RunStateError))
			Expect(got.Error).To(Equal("this failed"))
		})
	})

	Describe("List and Count", func() {
		BeforeEach(func() {
			for range 3 {
				Expect(st.Run().Save(ctx, newRun(models.RunStateCompleted))).To(Succeed())
			}
			Expect(st.Run().Save(ctx, newRun(models.RunStateError))).To(Succeed())
		})

		It("should list all runs", func() {
			runs, err := st.Run().List(ctx, store.WithDefaultSort())
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(4))
		})

		It("should filter by state", func() {
			runs, err := st.Run().List(ctx, store.ByState("error"))
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].State).To(Equal(models.RunStateError))

			count, err := st.Run().Count(ctx, store.ByState("completed"))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))
		})

		It("should paginate", func() {
			page, err := st.Run().List(ctx, store.WithDefaultSort(), store.WithLimit(2), store.WithOffset(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(2))
		})
	})

	Describe("Delete", func() {
		It("should remove a run from the log", func() {
			run := newRun(models.RunStateCompleted)
			Expect(st.Run().Save(ctx, run)).To(Succeed())
			Expect(st.Run().Delete(ctx, run.ID)).To(Succeed())

			_, err := st.Run().Get(ctx, run.ID)
			Expect(srvErrors.IsRunNotFound(err)).To(BeTrue())
		})
	})
})
