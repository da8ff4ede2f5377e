package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startNATS(t *testing.T) *nats.Conn {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Host:   "127.0.0.1",
		Port:   -1, // random free port
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server not ready")
	}
	t.Cleanup(ns.Shutdown)

	conn, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	return conn
}

func TestNATSNotifierPublishesOTPMailJob(t *testing.T) {
	conn := startNATS(t)

	received := make(chan *nats.Msg, 1)
	sub, err := conn.ChanSubscribe(SubjectOTPMail, received)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	n := NewNATS(conn, slog.Default())
	require.NoError(t, n.SendOTP(context.Background(), "worker@example.com", "482913"))

	select {
	case msg := <-received:
		var payload OTPMessage
		require.NoError(t, json.Unmarshal(msg.Data, &payload))
		assert.Equal(t, "worker@example.com", payload.Email)
		assert.Equal(t, "482913", payload.Code)
		assert.False(t, payload.SentAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no otp mail job received")
	}
}

func TestNATSNotifierReportsPublishFailure(t *testing.T) {
	conn := startNATS(t)
	conn.Close()

	n := NewNATS(conn, slog.Default())
	err := n.SendOTP(context.Background(), "worker@example.com", "482913")
	assert.Error(t, err)
}

func TestLogNotifierNeverFails(t *testing.T) {
	n := NewLog(slog.Default())
	assert.NoError(t, n.SendOTP(context.Background(), "worker@example.com", "000000"))
}
