package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"AuraLink/internal/config"
	"AuraLink/internal/modules/support/domain/action"
	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/pkg/zlog"

	"go.uber.org/zap"
)

const defaultSendTimeout = 10 * time.Second

// SmtpNotifier 邮件通知器
//
// 凭据未配置或投递失败都只产出失败结果，由上层记日志；通知永不阻断对话。
// 整个 SMTP 会话受 timeout 约束，服务端挂起不会泄漏后台投递协程。
type SmtpNotifier struct {
	host     string
	port     int
	username string
	password string
	sender   string
	timeout  time.Duration
}

var _ repository.Notifier = (*SmtpNotifier)(nil)

func NewSmtpNotifier(conf *config.SmtpConfig) *SmtpNotifier {
	sender := conf.SenderEmail
	if sender == "" {
		sender = "noreply@aura-support.com"
	}
	return &SmtpNotifier{
		host:     conf.Host,
		port:     conf.Port,
		username: conf.Username,
		password: conf.Password,
		sender:   sender,
		timeout:  defaultSendTimeout,
	}
}

func (n *SmtpNotifier) Notify(ctx context.Context, recipient, recipientName string, data *action.NotifyData) *action.NotifyResult {
	if n.username == "" || n.password == "" {
		zlog.Warn("email credentials not configured, email not sent")
		return &action.NotifyResult{Success: false, Message: "Email service not configured"}
	}
	if recipient == "" {
		zlog.Error("no recipient email provided")
		return &action.NotifyResult{Success: false, Message: "Recipient email address is missing"}
	}

	subject, body, err := RenderEmail(data)
	if err != nil {
		zlog.Error("email render failed", zap.Error(err))
		return &action.NotifyResult{Success: false, Message: err.Error()}
	}

	msg := n.buildMessage(recipient, subject, body)
	if err := n.send(recipient, msg); err != nil {
		zlog.Error("email send failed", zap.String("recipient", recipient), zap.Error(err))
		return &action.NotifyResult{Success: false, Message: fmt.Sprintf("Email service error: %v", err)}
	}

	zlog.Info("email sent", zap.String("recipient", recipient), zap.String("actionId", data.ActionID))
	return &action.NotifyResult{Success: true, Message: fmt.Sprintf("Email sent to %s", recipient)}
}

// send 执行一次受超时约束的 SMTP 会话（连接截止时间覆盖全程）
func (n *SmtpNotifier) send(recipient string, msg []byte) error {
	addr := net.JoinHostPort(n.host, strconv.Itoa(n.port))

	conn, err := net.DialTimeout("tcp", addr, n.timeout)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(n.timeout))

	c, err := smtp.NewClient(conn, n.host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: n.host}); err != nil {
			return err
		}
	}
	if err := c.Auth(smtp.PlainAuth("", n.username, n.password, n.host)); err != nil {
		return err
	}
	if err := c.Mail(n.sender); err != nil {
		return err
	}
	if err := c.Rcpt(recipient); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func (n *SmtpNotifier) buildMessage(to, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + n.sender + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}
