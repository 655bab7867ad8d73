// file: services/scheduler_test.go
//go:build unit
// +build unit

package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvery_RunsUntilCancelled(t *testing.T) {
	var runs int32
	task := Every(context.Background(), 5*time.Millisecond, func(context.Context) {
		atomic.AddInt32(&runs, 1)
	})

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 3 },
		time.Second, time.Millisecond, "task should tick repeatedly")

	task.Cancel()
	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task goroutine did not exit after Cancel")
	}

	after := atomic.LoadInt32(&runs)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&runs), "no runs after cancellation")
}

func TestEvery_StopsWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := Every(ctx, time.Hour, func(context.Context) {})

	cancel()
	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task should exit when its parent context ends")
	}
}

func TestTask_CancelIsIdempotent(t *testing.T) {
	task := Every(context.Background(), time.Hour, func(context.Context) {})
	task.Cancel()
	task.Cancel()

	var nilTask *Task
	assert.NotPanics(t, func() { nilTask.Cancel() })
}
