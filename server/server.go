package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/robfig/cron"

	"github.com/microcosm-collective/itemcache/controller"
	"github.com/microcosm-collective/itemcache/models"
)

// ShutdownTimeout bounds how long in-flight requests get to finish
const ShutdownTimeout = 10 * time.Second

// NewRouter registers every handler against a new router
func NewRouter(env *controller.Env) *mux.Router {
	r := mux.NewRouter()

	for url, handler := range handlers(env) {
		r.HandleFunc(url, handler)
	}

	r.NotFoundHandler = http.HandlerFunc(controller.NotFoundHandler)

	return r
}

// StartServer owns the http process and cron jobs. It returns when ctx is
// cancelled and the server has drained, or when the listener fails.
func StartServer(
	ctx context.Context,
	port int64,
	env *controller.Env,
	items *models.ItemCache,
) error {

	// Set up the cron jobs
	c := cron.New()
	for schedule, job := range jobs(items) {
		err := c.AddFunc(strings.Join(strings.Fields(schedule), " "), job)
		if err != nil {
			return fmt.Errorf("cron schedule %q: %w", schedule, err)
		}
	}
	c.Start()
	defer c.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewRouter(env),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	glog.Infof("Server running on port %d", port)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	glog.Info("Closing HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return err
	}

	err = <-errc
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}
