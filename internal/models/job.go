package models

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zackiles/bluebird-queue/pkg/batch"
	"github.com/zackiles/bluebird-queue/pkg/future"
)

// JobBuilder turns a submitted job id into the work items the scheduler
// should execute for it.
type JobBuilder interface {
	Build(id string) []batch.WorkItem
}

type UnimplementedJobBuilder struct{}

func (u UnimplementedJobBuilder) Build(id string) []batch.WorkItem {
	return []batch.WorkItem{
		batch.FromFactory(func() *future.Future[any] {
			return future.Go(context.Background(), func(ctx context.Context) (any, error) {
				time.Sleep(10 * time.Second)
				zap.S().Named("run_service").Infof("unimplemented work finished for: %s", id)
				return id, nil
			})
		}),
	}
}
