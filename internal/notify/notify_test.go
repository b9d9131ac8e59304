package notify

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
)

func quietLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

// doneToken is an already completed mqtt.Token.
type doneToken struct {
	err  error
	done chan struct{}
}

func newDoneToken(err error) *doneToken {
	t := &doneToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *doneToken) Wait() bool                     { return true }
func (t *doneToken) WaitTimeout(time.Duration) bool { return true }
func (t *doneToken) Done() <-chan struct{}          { return t.done }
func (t *doneToken) Error() error                   { return t.err }

// fakeClient records publishes. Methods it does not override panic.
type fakeClient struct {
	mqtt.Client
	open      bool
	err       error
	topic     string
	qos       byte
	payloads  [][]byte
	disconned bool
}

func (c *fakeClient) IsConnectionOpen() bool { return c.open }

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.topic = topic
	c.qos = qos
	c.payloads = append(c.payloads, payload.([]byte))
	return newDoneToken(c.err)
}

func (c *fakeClient) Disconnect(uint) { c.disconned = true }

func TestMQTTPublisher_Publish(t *testing.T) {
	client := &fakeClient{open: true}
	p := NewMQTTPublisherWithClient(client, "maintenance/due", 1)

	require.NoError(t, p.Publish(context.Background(), []byte(`{"x":1}`)))
	assert.Equal(t, "maintenance/due", client.topic)
	assert.Equal(t, byte(1), client.qos)
	assert.Equal(t, [][]byte{[]byte(`{"x":1}`)}, client.payloads)

	p.Close()
	assert.True(t, client.disconned)
}

func TestMQTTPublisher_Errors(t *testing.T) {
	t.Run("closed connection", func(t *testing.T) {
		p := NewMQTTPublisherWithClient(&fakeClient{open: false}, "t", 0)
		assert.ErrorIs(t, p.Publish(context.Background(), []byte("x")), ErrNotConnected)
	})

	t.Run("broker error", func(t *testing.T) {
		p := NewMQTTPublisherWithClient(&fakeClient{open: true, err: assert.AnError}, "t", 0)
		assert.ErrorIs(t, p.Publish(context.Background(), []byte("x")), assert.AnError)
	})
}

func TestNewMQTTPublisher_Unreachable(t *testing.T) {
	_, err := NewMQTTPublisher("tcp://127.0.0.1:1", "test", "t", quietLogger())
	assert.Error(t, err)
}

// MockPublisher is a mock implementation of Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, payload []byte) error {
	return m.Called(ctx, payload).Error(0)
}

func (m *MockPublisher) Close() {
	m.Called()
}

type stubSource struct {
	items []schedule.DueNotification
	err   error
}

func (s stubSource) Notifications(context.Context) ([]schedule.DueNotification, error) {
	return s.items, s.err
}

func TestDigest_Run(t *testing.T) {
	items := []schedule.DueNotification{
		{TaskID: "t1", TaskName: "Oil", Status: schedule.StatusOverdue, DaysRemaining: -3},
		{TaskID: "t2", TaskName: "Belt", Status: schedule.StatusUpcoming, DaysRemaining: 2},
	}
	publisher := new(MockPublisher)
	var sent []byte
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("[]uint8")).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]byte) }).
		Return(nil)

	d := NewDigest(stubSource{items: items}, publisher, quietLogger())
	msg, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, msg.Overdue)
	assert.Equal(t, 1, msg.Upcoming)
	publisher.AssertExpectations(t)

	var decoded Message
	require.NoError(t, json.Unmarshal(sent, &decoded))
	require.Len(t, decoded.Items, 2)
	assert.Equal(t, "t1", decoded.Items[0].TaskID)
}

func TestDigest_NothingDue(t *testing.T) {
	publisher := new(MockPublisher)
	d := NewDigest(stubSource{items: []schedule.DueNotification{}}, publisher, quietLogger())

	msg, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msg.Items)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestDigest_Failures(t *testing.T) {
	t.Run("source", func(t *testing.T) {
		d := NewDigest(stubSource{err: assert.AnError}, NopPublisher{}, quietLogger())
		_, err := d.Run(context.Background())
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("publisher", func(t *testing.T) {
		publisher := new(MockPublisher)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(assert.AnError)
		d := NewDigest(stubSource{items: []schedule.DueNotification{{TaskID: "t1"}}}, publisher, quietLogger())
		_, err := d.Run(context.Background())
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 7 * * *"))
	assert.NoError(t, ValidateSchedule("*/15 8-17 * * 1-5"))
	assert.Error(t, ValidateSchedule("0 0 7 * * *"))
	assert.Error(t, ValidateSchedule("daily"))
}

func TestSchedule(t *testing.T) {
	d := NewDigest(stubSource{}, NopPublisher{}, quietLogger())

	c, err := Schedule("0 7 * * *", time.UTC, d)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	sched, err := cronParser.Parse("0 7 * * *")
	require.NoError(t, err)
	from := time.Date(2024, time.March, 25, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.March, 26, 7, 0, 0, 0, time.UTC), sched.Next(from))

	_, err = Schedule("bad", time.UTC, d)
	assert.Error(t, err)
}
