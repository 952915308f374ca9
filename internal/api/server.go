// Package api exposes the dashboard's read API over the synced store, plus
// endpoints to request and poll sync runs.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/finwatch/uptrack/internal/jobs"
	"github.com/finwatch/uptrack/internal/store"
)

// Server wires the repositories and the sync job queue into HTTP handlers.
type Server struct {
	accounts     *store.AccountRepo
	transactions *store.TransactionRepo
	publisher    jobs.Publisher
	jobStore     jobs.JobStore
	log          zerolog.Logger
}

// NewServer creates a Server. publisher and jobStore may be nil, in which
// case the sync endpoints return 503.
func NewServer(accounts *store.AccountRepo, transactions *store.TransactionRepo, publisher jobs.Publisher, jobStore jobs.JobStore, log zerolog.Logger) *Server {
	return &Server{
		accounts:     accounts,
		transactions: transactions,
		publisher:    publisher,
		jobStore:     jobStore,
		log:          log,
	}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.log))
	r.Use(CORS())

	r.GET("/healthz", s.healthz)
	r.GET("/api/accounts", s.listAccounts)
	r.GET("/api/transactions", s.listTransactions)
	r.GET("/api/summary/income", s.incomeSummary)
	r.GET("/api/summary/spending", s.spendingSummary)
	r.POST("/api/sync", s.requestSync)
	r.GET("/api/sync/jobs", s.listSyncJobs)
	r.GET("/api/sync/jobs/:id", s.getSyncJob)

	return r
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listAccounts(c *gin.Context) {
	rows, err := s.accounts.ListAll(c.Request.Context())
	if err != nil {
		s.fail(c, err, "list accounts")
		return
	}
	out := make([]accountView, 0, len(rows))
	for _, a := range rows {
		out = append(out, newAccountView(a))
	}
	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

func (s *Server) listTransactions(c *gin.Context) {
	filters := store.TransactionFilters{
		Status:    c.Query("status"),
		Category:  c.Query("category"),
		AccountID: c.Query("account"),
	}
	if since, ok := parseDateParam(c.Query("since")); ok {
		filters.Since = since
	}
	if until, ok := parseDateParam(c.Query("until")); ok {
		// Until is exclusive; a bare date means "through the end of that day".
		filters.Until = until.AddDate(0, 0, 1)
	}

	rows, err := s.transactions.List(c.Request.Context(), filters)
	if err != nil {
		s.fail(c, err, "list transactions")
		return
	}
	out := make([]transactionView, 0, len(rows))
	for _, t := range rows {
		out = append(out, newTransactionView(t))
	}
	c.JSON(http.StatusOK, gin.H{"transactions": out})
}

func (s *Server) incomeSummary(c *gin.Context) {
	start, end, err := s.summaryRange(c)
	if err != nil {
		s.fail(c, err, "resolve summary range")
		return
	}
	rows, err := s.transactions.IncomeByDescription(c.Request.Context(), start, end)
	if err != nil {
		s.fail(c, err, "income summary")
		return
	}
	c.JSON(http.StatusOK, gin.H{"start": start, "end": end, "rows": rows})
}

func (s *Server) spendingSummary(c *gin.Context) {
	start, end, err := s.summaryRange(c)
	if err != nil {
		s.fail(c, err, "resolve summary range")
		return
	}
	rows, err := s.transactions.SpendingByParentCategory(c.Request.Context(), start, end)
	if err != nil {
		s.fail(c, err, "spending summary")
		return
	}
	c.JSON(http.StatusOK, gin.H{"start": start, "end": end, "rows": rows})
}

// summaryRange resolves the start/end query parameters against the settled
// range actually present in the store. A missing, malformed or out-of-range
// bound falls back to the store's own extreme.
func (s *Server) summaryRange(c *gin.Context) (time.Time, time.Time, error) {
	min, max, err := s.transactions.SettledRange(c.Request.Context())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if min == nil || max == nil {
		now := time.Now().UTC()
		return now, now, nil
	}

	start, end := *min, *max
	if t, ok := parseDateParam(c.Query("start")); ok && !t.Before(*min) && !t.After(*max) {
		start = t
	}
	if t, ok := parseDateParam(c.Query("end")); ok && !t.Before(*min) && !t.After(*max) {
		end = t
	}
	return start, end, nil
}

func (s *Server) requestSync(c *gin.Context) {
	if s.publisher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sync is not enabled on this server"})
		return
	}
	job := &jobs.SyncJob{}
	if err := s.publisher.PublishSync(c.Request.Context(), job); err != nil {
		s.fail(c, err, "enqueue sync")
		return
	}
	c.JSON(http.StatusAccepted, job)
}

func (s *Server) getSyncJob(c *gin.Context) {
	if s.jobStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sync is not enabled on this server"})
		return
	}
	job, err := s.jobStore.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) listSyncJobs(c *gin.Context) {
	if s.jobStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sync is not enabled on this server"})
		return
	}
	out, err := s.jobStore.ListJobs(c.Request.Context(), jobs.JobFilter{
		Status: jobs.JobStatus(c.Query("status")),
		Limit:  50,
	})
	if err != nil {
		s.fail(c, err, "list sync jobs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": out})
}

func (s *Server) fail(c *gin.Context, err error, msg string) {
	s.log.Error().Err(err).Msg("Request failed: " + msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// parseDateParam accepts a YYYY-MM-DD date in UTC. The boolean is false for
// empty or malformed input, which callers treat as "parameter unused".
func parseDateParam(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
