package shutdown

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iotaledger/hive.go/daemon"
	"github.com/iotaledger/hive.go/logger"
)

// ShutdownHandler waits until a shutdown signal was received or the node tried to shutdown itself,
// and shuts down all background workers gracefully.
type ShutdownHandler struct {
	log              *logger.Logger
	daemon           daemon.Daemon
	stopGracePeriod  time.Duration
	gracefulStop     chan os.Signal
	nodeSelfShutdown chan string
}

// NewShutdownHandler creates a new shutdown handler.
// The process is killed if the background workers did not stop within stopGracePeriod.
func NewShutdownHandler(log *logger.Logger, daemon daemon.Daemon, stopGracePeriod time.Duration) *ShutdownHandler {

	gs := &ShutdownHandler{
		log:              log,
		daemon:           daemon,
		stopGracePeriod:  stopGracePeriod,
		gracefulStop:     make(chan os.Signal, 1),
		nodeSelfShutdown: make(chan string),
	}

	signal.Notify(gs.gracefulStop, syscall.SIGTERM, syscall.SIGINT)

	return gs
}

// SelfShutdown can be called in order to instruct the node to shutdown cleanly without receiving any interrupt signals.
func (gs *ShutdownHandler) SelfShutdown(msg string) {
	select {
	case gs.nodeSelfShutdown <- msg:
	default:
	}
}

// Run starts the ShutdownHandler go routine.
func (gs *ShutdownHandler) Run() {

	go func() {
		select {
		case <-gs.gracefulStop:
			gs.log.Warnf("Received shutdown request - waiting (max %s) to finish processing ...", gs.stopGracePeriod)
		case msg := <-gs.nodeSelfShutdown:
			gs.log.Warnf("Node self-shutdown: %s; waiting (max %s) to finish processing ...", msg, gs.stopGracePeriod)
		}

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()

			deadline := time.Now().Add(gs.stopGracePeriod)
			for {
				select {
				case <-done:
					return
				case now := <-ticker.C:
					if now.After(deadline) {
						gs.log.Fatal("Background workers did not terminate in time! Forcing shutdown ...")
					}

					processList := ""
					if running := gs.daemon.GetRunningBackgroundWorkers(); len(running) > 0 {
						processList = "(" + strings.Join(running, ", ") + ") "
					}
					gs.log.Warnf("Received shutdown request - waiting (max %s) to finish processing %s...", deadline.Sub(now).Truncate(time.Second), processList)
				}
			}
		}()

		gs.daemon.ShutdownAndWait()
		close(done)
	}()
}
