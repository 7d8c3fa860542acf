package printer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/ototansan/internal/models"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newFakeToken(err error) *fakeToken {
	ch := make(chan struct{})
	close(ch)
	return &fakeToken{done: ch, err: err}
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	args := m.Called(topic, qos, retained, payload)
	return args.Get(0).(mqtt.Token)
}

func testJob() Job {
	return Job{
		SessionID:   "s-1",
		Record:      models.ServiceRecord{ID: "1", CarModel: "Toyota Innova Reborn", Kilometers: 45000, NextServiceKm: 50000},
		RequestedAt: time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC),
	}
}

func TestMQTTPrinter_Print(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", "ototansan/print", byte(0), false, mock.Anything).Return(newFakeToken(nil))

	p := &MQTTPrinter{client: pub, topic: "ototansan/print"}
	require.NoError(t, p.Print(context.Background(), testJob()))
	pub.AssertExpectations(t)

	payload := pub.Calls[0].Arguments.Get(3).([]byte)
	var job Job
	require.NoError(t, json.Unmarshal(payload, &job))
	assert.Equal(t, "s-1", job.SessionID)
	assert.Equal(t, 50000, job.Record.NextServiceKm)
}

func TestMQTTPrinter_PublishError(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(newFakeToken(errors.New("not connected")))

	p := &MQTTPrinter{client: pub, topic: "t"}
	err := p.Print(context.Background(), testJob())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}

func TestLogPrinter(t *testing.T) {
	assert.NoError(t, LogPrinter{}.Print(context.Background(), testJob()))
}
