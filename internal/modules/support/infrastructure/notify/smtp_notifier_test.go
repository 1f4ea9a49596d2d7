package notify

import (
	"context"
	"net"
	"testing"
	"time"

	"AuraLink/internal/config"
	"AuraLink/internal/modules/support/domain/action"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refundData() *action.NotifyData {
	return &action.NotifyData{
		ActionID:    "REF-20260830-0001",
		ActionType:  action.InitiateRefund,
		ProductName: "AURA Blender Pro",
	}
}

func TestSmtpNotifierUnconfigured(t *testing.T) {
	n := NewSmtpNotifier(&config.SmtpConfig{})

	res := n.Notify(context.Background(), "priya@example.com", "Priya", refundData())
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, "Email service not configured", res.Message)
}

func TestSmtpNotifierMissingRecipient(t *testing.T) {
	n := NewSmtpNotifier(&config.SmtpConfig{Username: "u", Password: "p"})

	res := n.Notify(context.Background(), "", "Priya", refundData())
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, "Recipient email address is missing", res.Message)
}

func TestSmtpNotifierSendBounded(t *testing.T) {
	// 服务端收下连接但不回应，投递必须在超时内失败返回
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	tcpAddr := ln.Addr().(*net.TCPAddr)
	n := NewSmtpNotifier(&config.SmtpConfig{
		Host:     "127.0.0.1",
		Port:     tcpAddr.Port,
		Username: "u",
		Password: "p",
	})
	n.timeout = 200 * time.Millisecond

	start := time.Now()
	res := n.Notify(context.Background(), "priya@example.com", "Priya", refundData())
	elapsed := time.Since(start)

	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Email service error")
	assert.Less(t, elapsed, 5*time.Second)
}
