package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	stderrors "careerhub-notifications/internal/common/errors"
	"careerhub-notifications/internal/common/logger"
	"careerhub-notifications/internal/dispatcher"
	"careerhub-notifications/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcherAPI struct {
	result *dispatcher.Result
	err    error
	last   *dispatcher.Request
}

func (f *fakeDispatcherAPI) Dispatch(_ context.Context, req *dispatcher.Request) (*dispatcher.Result, error) {
	f.last = req
	return f.result, f.err
}

type fakeSchedulerAPI struct {
	scheduleOut *scheduler.ScheduleOutput
	sendNowOut  *scheduler.SendNowOutput
	err         error
	lastInput   *scheduler.ScheduleInput
}

func (f *fakeSchedulerAPI) Schedule(_ context.Context, input *scheduler.ScheduleInput) (*scheduler.ScheduleOutput, error) {
	f.lastInput = input
	return f.scheduleOut, f.err
}

func (f *fakeSchedulerAPI) SendNow(_ context.Context, _ *scheduler.SendNowInput) (*scheduler.SendNowOutput, error) {
	return f.sendNowOut, f.err
}

type fakeReadMarker struct {
	marked []string
	err    error
}

func (f *fakeReadMarker) MarkRead(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.marked = append(f.marked, id)
	return nil
}

type fakeOpenRecorder struct {
	opens []string
}

func (f *fakeOpenRecorder) RecordOpen(_ context.Context, userID string, _ time.Time) error {
	f.opens = append(f.opens, userID)
	return nil
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestHealthz(t *testing.T) {
	srv := New(&fakeDispatcherAPI{}, &fakeSchedulerAPI{}, &fakeReadMarker{}, nil, logger.NewNoOpLogger())

	w, body := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestDispatch_Success(t *testing.T) {
	disp := &fakeDispatcherAPI{result: &dispatcher.Result{Success: true, Status: dispatcher.StatusSent, EmailID: "msg-1"}}
	srv := New(disp, &fakeSchedulerAPI{}, &fakeReadMarker{}, nil, logger.NewNoOpLogger())

	w, body := doJSON(t, srv.Handler(), http.MethodPost, "/v1/notifications/dispatch",
		`{"notificationId": "notif-1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "msg-1", body["emailId"])
	require.NotNil(t, disp.last)
	assert.Equal(t, "notif-1", disp.last.NotificationID)
}

func TestDispatch_AlreadyProcessedIsOK(t *testing.T) {
	disp := &fakeDispatcherAPI{result: &dispatcher.Result{Success: false, Status: dispatcher.StatusAlreadyProcessed}}
	srv := New(disp, &fakeSchedulerAPI{}, &fakeReadMarker{}, nil, logger.NewNoOpLogger())

	w, body := doJSON(t, srv.Handler(), http.MethodPost, "/v1/notifications/dispatch",
		`{"notificationId": "notif-1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, dispatcher.StatusAlreadyProcessed, body["status"])
}

func TestDispatch_ErrorMapsToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", stderrors.NewInvalidInputError("either notificationId or template is required"), http.StatusBadRequest},
		{"template not found", stderrors.NewTemplateNotFoundError("made_up"), http.StatusBadRequest},
		{"recipient not found", stderrors.NewRecipientNotFoundError("no address"), http.StatusNotFound},
		{"provider failure", stderrors.NewEmailSendError("ses throttled"), http.StatusBadGateway},
		{"query failure", stderrors.NewQueryError("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disp := &fakeDispatcherAPI{err: tt.err}
			srv := New(disp, &fakeSchedulerAPI{}, &fakeReadMarker{}, nil, logger.NewNoOpLogger())

			w, body := doJSON(t, srv.Handler(), http.MethodPost, "/v1/notifications/dispatch",
				`{"notificationId": "notif-1"}`)

			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestDispatch_MalformedBody(t *testing.T) {
	srv := New(&fakeDispatcherAPI{}, &fakeSchedulerAPI{}, &fakeReadMarker{}, nil, logger.NewNoOpLogger())

	w, _ := doJSON(t, srv.Handler(), http.MethodPost, "/v1/notifications/dispatch", `{{`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchedule_Success(t *testing.T) {
	scheduledFor := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	sched := &fakeSchedulerAPI{scheduleOut: &scheduler.ScheduleOutput{ID: "sched-1", ScheduledFor: scheduledFor, Smart: true}}
	srv := New(&fakeDispatcherAPI{}, sched, &fakeReadMarker{}, nil, logger.NewNoOpLogger())

	w, body := doJSON(t, srv.Handler(), http.MethodPost, "/v1/notifications/schedule", `{
		"userId": "user-1",
		"notificationType": "job_match_alert",
		"title": "New matches",
		"message": "We found new roles for you",
		"channel": "email",
		"minDelayMinutes": 30
	}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sched-1", body["id"])
	assert.Equal(t, scheduledFor.Format(time.RFC3339), body["scheduledFor"])
	assert.Equal(t, true, body["smart"])

	require.NotNil(t, sched.lastInput)
	assert.Equal(t, 30*time.Minute, sched.lastInput.MinDelay)
	assert.Equal(t, "user-1", sched.lastInput.UserID)
}

func TestSchedule_ValidationErrorIsBadRequest(t *testing.T) {
	sched := &fakeSchedulerAPI{err: stderrors.NewInvalidInputError("userId is required")}
	srv := New(&fakeDispatcherAPI{}, sched, &fakeReadMarker{}, nil, logger.NewNoOpLogger())

	w, body := doJSON(t, srv.Handler(), http.MethodPost, "/v1/notifications/schedule",
		`{"notificationType": "welcome"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "userId is required")
}

func TestSendNow_Success(t *testing.T) {
	sched := &fakeSchedulerAPI{sendNowOut: &scheduler.SendNowOutput{ID: "notif-1"}}
	srv := New(&fakeDispatcherAPI{}, sched, &fakeReadMarker{}, nil, logger.NewNoOpLogger())

	w, body := doJSON(t, srv.Handler(), http.MethodPost, "/v1/notifications/send-now", `{
		"userId": "user-1",
		"organizationId": "org-1",
		"notificationType": "achievement_unlocked",
		"title": "Achievement unlocked",
		"message": "You earned a badge"
	}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "notif-1", body["id"])
}

func TestMarkRead_RecordsReadAndOpen(t *testing.T) {
	reads := &fakeReadMarker{}
	opens := &fakeOpenRecorder{}
	srv := New(&fakeDispatcherAPI{}, &fakeSchedulerAPI{}, reads, opens, logger.NewNoOpLogger())

	w, body := doJSON(t, srv.Handler(), http.MethodPost, "/v1/notifications/notif-1/read",
		`{"userId": "user-1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []string{"notif-1"}, reads.marked)
	assert.Equal(t, []string{"user-1"}, opens.opens)
}

func TestMarkRead_WithoutUserIDSkipsOpenRecording(t *testing.T) {
	reads := &fakeReadMarker{}
	opens := &fakeOpenRecorder{}
	srv := New(&fakeDispatcherAPI{}, &fakeSchedulerAPI{}, reads, opens, logger.NewNoOpLogger())

	w, _ := doJSON(t, srv.Handler(), http.MethodPost, "/v1/notifications/notif-1/read", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"notif-1"}, reads.marked)
	assert.Empty(t, opens.opens)
}

func TestMarkRead_StoreErrorSurfaces(t *testing.T) {
	reads := &fakeReadMarker{err: stderrors.NewQueryError("connection refused")}
	srv := New(&fakeDispatcherAPI{}, &fakeSchedulerAPI{}, reads, nil, logger.NewNoOpLogger())

	w, _ := doJSON(t, srv.Handler(), http.MethodPost, "/v1/notifications/notif-1/read",
		`{"userId": "user-1"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
