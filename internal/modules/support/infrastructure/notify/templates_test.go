package notify

import (
	"testing"

	"AuraLink/internal/modules/support/domain/action"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRefundEmail(t *testing.T) {
	subject, body, err := RenderEmail(&action.NotifyData{
		ActionID:    "REF-20260830-0001",
		ActionType:  action.InitiateRefund,
		ProductName: "AURA Blender Pro",
	})
	require.NoError(t, err)

	assert.Equal(t, "Refund Request Confirmed - REF-20260830-0001", subject)
	assert.Contains(t, body, "Refund Request Confirmed")
	assert.Contains(t, body, "REF-20260830-0001")
	assert.Contains(t, body, "AURA Blender Pro")
	assert.Contains(t, body, "original payment method")
	assert.Contains(t, body, "AURA Support Team")
}

func TestRenderReplacementEmail(t *testing.T) {
	subject, body, err := RenderEmail(&action.NotifyData{
		ActionID:   "REP-20260830-0002",
		ActionType: action.InitiateReplacement,
	})
	require.NoError(t, err)

	assert.Equal(t, "Replacement Request Confirmed - REP-20260830-0002", subject)
	// 产品名缺省为 N/A
	assert.Contains(t, body, "N/A")
	assert.Contains(t, body, "Product pickup will be scheduled")
}

func TestRenderServiceBookingEmail(t *testing.T) {
	subject, body, err := RenderEmail(&action.NotifyData{
		ActionID:      "SRV-20260830-0003",
		ActionType:    action.BookService,
		ProductName:   "AURA Blender Pro",
		ServiceCenter: "Nearest Center",
		ScheduledDate: "TBD",
		TimeSlot:      "TBD",
	})
	require.NoError(t, err)

	assert.Equal(t, "Service Booking Confirmed - SRV-20260830-0003", subject)
	assert.Contains(t, body, "Service Appointment Confirmed")
	assert.Contains(t, body, "Nearest Center")
	assert.Contains(t, body, "proof of purchase")
}

func TestRenderEmailUnknownType(t *testing.T) {
	_, _, err := RenderEmail(&action.NotifyData{ActionType: action.None})
	assert.Error(t, err)
}
