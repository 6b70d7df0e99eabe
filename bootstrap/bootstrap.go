package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulldump/box"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fulldump/registryviews/api"
	"github.com/fulldump/registryviews/catalog"
	"github.com/fulldump/registryviews/configuration"
	"github.com/fulldump/registryviews/service"
)

var VERSION = "dev"

// Bootstrap wires catalog and HTTP server. start blocks until stop is called
// or a SIGTERM/SIGINT arrives.
func Bootstrap(c *configuration.Configuration, logger *zap.Logger) (start func() error, stop func(), err error) {

	cat := catalog.New(&catalog.Config{
		Views:  c.Views,
		Logger: logger,
	})

	b := api.Build(service.NewService(cat), VERSION, c.ApiKey, c.ApiSecret)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.AccessLog(logger.Named("access")),
		api.PrettyErrorInterceptor,
		api.InterceptorUnavailable(cat),
		api.RecoverFromPanic(logger),
	)

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("listening", zap.String("addr", ln.Addr().String()))

	stop = func() {
		err := cat.Stop()
		if err != nil {
			logger.Error("stop catalog", zap.Error(err))
		}
		err = s.Shutdown(context.Background())
		if err != nil {
			logger.Error("shutdown http", zap.Error(err))
		}
	}

	start = func() error {

		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(signalChan)

		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case sig := <-signalChan:
				logger.Info("signal received", zap.String("signal", sig.String()))
				stop()
			case <-done:
			}
		}()

		g := &errgroup.Group{}
		g.Go(cat.Start)
		g.Go(func() error {
			err := s.Serve(ln)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			if err != nil {
				// Catalog would block forever otherwise
				cat.Stop()
			}
			return err
		})
		return g.Wait()
	}

	return start, stop, nil
}
