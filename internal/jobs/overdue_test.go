package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarker struct {
	today civil.Date
	n     int64
	err   error
	calls []civil.Date
}

func (f *fakeMarker) Today() civil.Date { return f.today }

func (f *fakeMarker) MarkOverdue(ctx context.Context, today civil.Date) (int64, error) {
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("sweep must run with a deadline")
	}
	f.calls = append(f.calls, today)
	return f.n, f.err
}

func TestOverdueJob_Run(t *testing.T) {
	log, hook := test.NewNullLogger()
	marker := &fakeMarker{today: civil.Date{Year: 2025, Month: time.March, Day: 10}, n: 4}
	job, err := NewOverdueJob(marker, "0 1 * * *", time.UTC, log)
	require.NoError(t, err)

	n, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, []civil.Date{marker.today}, marker.calls)
	assert.Equal(t, int64(4), hook.LastEntry().Data["updated"])
}

func TestOverdueJob_RunFailure(t *testing.T) {
	log, hook := test.NewNullLogger()
	marker := &fakeMarker{today: civil.Date{Year: 2025, Month: time.March, Day: 10}, err: errors.New("db down")}
	job, err := NewOverdueJob(marker, "@daily", time.UTC, log)
	require.NoError(t, err)

	_, err = job.Run(context.Background())
	assert.EqualError(t, err, "db down")
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestNewOverdueJob_InvalidSchedule(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := NewOverdueJob(&fakeMarker{}, "every night", time.UTC, log)
	assert.Error(t, err)
}

func TestOverdueJob_StartStop(t *testing.T) {
	log, _ := test.NewNullLogger()
	job, err := NewOverdueJob(&fakeMarker{}, "0 1 * * *", time.UTC, log)
	require.NoError(t, err)

	job.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	job.Stop(ctx)
}
