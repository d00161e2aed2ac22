package serve

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/dubz-banking/dubz/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServe(t *testing.T) {
	Convey("Given a server on an ephemeral port", t, func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		So(err, ShouldBeNil)
		h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "pong")
		})
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- Serve(ctx, ln, h, time.Second, logger.Nop()) }()

		Convey("When a request is made and the context is cancelled", func() {
			resp, getErr := http.Get("http://" + ln.Addr().String() + "/")
			So(getErr, ShouldBeNil)
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			cancel()

			Convey("Then the request is served and shutdown is clean", func() {
				So(string(body), ShouldEqual, "pong")
				select {
				case err := <-done:
					So(err, ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("server did not stop")
				}
			})
		})
	})
}

func TestRunListenError(t *testing.T) {
	Convey("Given an address that is already taken", t, func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		So(err, ShouldBeNil)
		defer func() { _ = ln.Close() }()

		err = Run(context.Background(), ln.Addr().String(), http.NotFoundHandler(), time.Second, logger.Nop())

		Convey("Then Run fails with ErrServe", func() {
			So(errors.Is(err, ErrServe), ShouldBeTrue)
		})
	})
}

func TestNewServer(t *testing.T) {
	Convey("Given the server constructor", t, func() {
		srv := NewServer(":8000", http.NotFoundHandler())

		Convey("Then the timeouts are set", func() {
			So(srv.Addr, ShouldEqual, ":8000")
			So(srv.ReadHeaderTimeout, ShouldEqual, readHeaderTimeout)
			So(srv.IdleTimeout, ShouldEqual, idleTimeout)
		})
	})
}
