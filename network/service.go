package network

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/OpenNHP/opennhp/nhp/log"
	"github.com/OpenNHP/opennhp/nhp/utils"

	"github.com/YongboStudio/WinToolbox/common"
	"github.com/YongboStudio/WinToolbox/system"
)

const (
	msgRouteAdded   = "route added"
	msgRouteDeleted = "route deleted"
)

// Service reads adapter and routing information from the OS tools and
// changes the routing table.
type Service struct {
	exec    system.Executor
	markers atomic.Pointer[Markers]
	watch   io.Closer
}

func NewService(exec system.Executor) *Service {
	s := &Service{exec: exec}
	s.markers.Store(DefaultMarkers())
	return s
}

// WatchMarkers loads a user marker file and reloads it whenever it changes.
// A missing file keeps the built-in markers and is not watched.
func (s *Service) WatchMarkers(file string) {
	if _, err := os.Stat(file); err != nil {
		log.Debug("no marker file at %s, using built-in markers", file)
		return
	}
	s.reloadMarkers(file)
	s.watch = utils.WatchFile(file, func() {
		log.Info("marker file: %s has been updated", file)
		s.reloadMarkers(file)
	})
}

func (s *Service) reloadMarkers(file string) {
	m, err := LoadMarkers(file)
	if err != nil {
		log.Debug("using built-in markers: %v", err)
		return
	}
	s.markers.Store(m)
}

func (s *Service) Markers() *Markers {
	return s.markers.Load()
}

func (s *Service) Close() {
	if s.watch != nil {
		s.watch.Close()
	}
}

func (s *Service) output(ctx context.Context, argv ...string) (string, error) {
	out, err := s.exec.Run(ctx, argv, system.RunOptions{})
	if err != nil {
		return "", err
	}
	if out.ExitCode != 0 {
		return "", &common.ExitError{Name: argv[0], ExitCode: out.ExitCode, Stdout: out.Stdout, Stderr: out.Stderr}
	}
	return out.Stdout, nil
}

// Adapters runs ipconfig /all and returns the configured adapters.
func (s *Service) Adapters(ctx context.Context) ([]AdapterInfo, error) {
	text, err := s.output(ctx, "ipconfig", "/all")
	if err != nil {
		log.Error("get ipconfig output fail: %v", err)
		return nil, err
	}
	adapters := ParseIPConfig(text, s.Markers())
	log.Debug("parsed %d adapters", len(adapters))
	return adapters, nil
}

// Routes runs route print -4 and returns the active IPv4 routes.
func (s *Service) Routes(ctx context.Context) ([]RouteEntry, error) {
	log.Debug("get route table")
	text, err := s.output(ctx, "route", "print", "-4")
	if err != nil {
		log.Error("get route table fail: %v", err)
		return nil, err
	}
	routes := ParseRoutes(text, s.Markers())
	log.Debug("parsed %d routes", len(routes))
	return routes, nil
}

func (s *Service) AddRoute(ctx context.Context, req AddRouteRequest) common.Result {
	required := []struct{ field, value string }{
		{"destination", req.Destination},
		{"mask", req.Mask},
		{"gateway", req.Gateway},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			err := &common.ValidationError{Field: r.field}
			log.Warning("add route rejected: %v", err)
			return common.Fail("", err)
		}
	}
	log.Info("add route: %s mask %s gateway %s metric %q, persistent=%v",
		req.Destination, req.Mask, req.Gateway, req.Metric, req.Persistent)
	res := s.mutate(ctx, AddRouteCommand(req), msgRouteAdded)
	if res.Success {
		log.Info("add route success: %s", req.Destination)
	} else {
		log.Error("add route fail: %s, reason: %s", req.Destination, res.Message)
	}
	return res
}

func (s *Service) DeleteRoute(ctx context.Context, destination string) common.Result {
	if strings.TrimSpace(destination) == "" {
		err := &common.ValidationError{Field: "destination"}
		log.Warning("delete route rejected: %v", err)
		return common.Fail("", err)
	}
	log.Info("delete route: %s", destination)
	res := s.mutate(ctx, DeleteRouteCommand(destination), msgRouteDeleted)
	if res.Success {
		log.Info("delete route success: %s", destination)
	} else {
		log.Error("delete route fail: %s, reason: %s", destination, res.Message)
	}
	return res
}

func (s *Service) mutate(ctx context.Context, argv []string, okMsg string) common.Result {
	out, err := s.exec.Run(ctx, argv, system.RunOptions{})
	if err != nil {
		return common.Fail("", err)
	}
	if out.ExitCode != 0 {
		return common.Fail("", &common.ExitError{Name: argv[0], ExitCode: out.ExitCode, Stdout: out.Stdout, Stderr: out.Stderr})
	}
	return common.OK(okMsg)
}
