package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaoyuanzhu-com/project-import/models"
)

func TestService_ImportEvents(t *testing.T) {
	s := NewService()
	defer s.Shutdown()

	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	run := models.ImportRun{ID: "r1", Status: models.ImportRunning}
	s.ImportStarted(run)

	run.Status = models.ImportFailed
	s.ImportFinished(run)

	run.Status = models.ImportCompleted
	s.ImportFinished(run)

	var got []EventType
	for i := 0; i < 3; i++ {
		ev := <-ch
		assert.NotZero(t, ev.Timestamp)
		got = append(got, ev.Type)
	}
	assert.Equal(t, []EventType{EventImportStarted, EventImportFailed, EventImportCompleted}, got)
}

func TestService_FullSubscriberIsSkipped(t *testing.T) {
	s := NewService()
	defer s.Shutdown()

	_, unsubscribe := s.Subscribe()
	defer unsubscribe()

	// More events than the buffer holds must not block
	for i := 0; i < 50; i++ {
		s.Notify(Event{Type: EventConnected})
	}
	assert.Equal(t, 1, s.SubscriberCount())
}

func TestService_Shutdown(t *testing.T) {
	s := NewService()
	ch, unsubscribe := s.Subscribe()

	s.Shutdown()
	s.Shutdown()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, s.SubscriberCount())

	// Unsubscribe after shutdown is a no-op
	unsubscribe()

	late, _ := s.Subscribe()
	_, ok = <-late
	require.False(t, ok)

	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed")
	}
}
