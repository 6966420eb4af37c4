package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	echoapi "github.com/the-user01/Study-Platform-Server/apps/api/echo"
	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/auth"
	"github.com/the-user01/Study-Platform-Server/core/booking"
	"github.com/the-user01/Study-Platform-Server/core/material"
	"github.com/the-user01/Study-Platform-Server/core/note"
	"github.com/the-user01/Study-Platform-Server/core/payment"
	"github.com/the-user01/Study-Platform-Server/core/session"
	"github.com/the-user01/Study-Platform-Server/core/user"
	emailsvc "github.com/the-user01/Study-Platform-Server/services/email"
	logsvc "github.com/the-user01/Study-Platform-Server/services/logger"
	"github.com/the-user01/Study-Platform-Server/services/metrics"
	paymentsvc "github.com/the-user01/Study-Platform-Server/services/payment"
	inmemdb "github.com/the-user01/Study-Platform-Server/storage/database/inmem"
	"github.com/the-user01/Study-Platform-Server/tests"
)

var (
	errMissingToken    = httpErr{Error: "missing or malformed jwt"}
	errInvalidToken    = httpErr{Error: "invalid or expired jwt"}
	errPermDenied      = httpErr{Error: "permission denied"}
	errNotOwner        = httpErr{Error: "session belongs to another tutor"}
	errWrongTransition = httpErr{Error: "session status does not allow this transition"}
)

// testApp is a Server wired to the in-memory store, the silent mailer and the dummy payment provider.
type testApp struct {
	*echoapi.Server

	db          *inmemdb.DB
	conf        *core.Config
	tokens      *auth.TokenService
	usrRepo     user.Repository
	sessionRepo session.Repository
	mailSvc     *emailsvc.ConsoleService
	provider    *paymentsvc.DummyProvider
}

func setup(t *testing.T) *testApp {
	t.Helper()
	conf := testutil.NewConfig()
	logger := logsvc.NewZapLoggerFrom(zap.NewNop())

	// set up DB & repos
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	sessionRepo := inmemdb.NewSessionRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	provider := paymentsvc.NewDummyProvider()
	usrSvc := user.NewService(usrRepo)
	sessionSvc := session.NewService(sessionRepo, mailSvc)
	tokens := auth.NewTokenService(conf)
	validate, translator := testutil.NewTranslatedValidator()

	// set up server
	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:        conf,
		Logger:      logger,
		Validate:    validate,
		Translator:  translator,
		Metrics:     metrics.New(),
		Tokens:      tokens,
		UserSvc:     usrSvc,
		SessionSvc:  sessionSvc,
		MaterialSvc: material.NewService(inmemdb.NewMaterialRepository(db)),
		NoteSvc:     note.NewService(inmemdb.NewNoteRepository(db)),
		BookingSvc:  booking.NewService(inmemdb.NewBookingRepository(db), sessionSvc),
		PaymentSvc:  payment.NewService(provider, conf),
	})

	return &testApp{
		Server:      server,
		db:          db,
		conf:        conf,
		tokens:      tokens,
		usrRepo:     usrRepo,
		sessionRepo: sessionRepo,
		mailSvc:     mailSvc,
		provider:    provider,
	}
}

func (app *testApp) do(req *http.Request, rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	app.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.do(req, rec)
			checkCodeAndData(t, tt, rec)
		})
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, tokens *auth.TokenService, email string) string {
	t.Helper()
	token, err := tokens.Issue(auth.Identity{Email: email})
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	assert.Equal(t, wantCode, rec.Code, "code")
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if assert.NoError(t, err, "jsonBytesEqual() failed to compare") {
		assert.True(t, ok, "data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// decode unmarshals the recorded body into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode() failed: %v; body %s", err, rec.Body.String())
	}
}
