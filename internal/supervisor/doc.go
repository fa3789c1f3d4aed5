// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

/*
Package supervisor runs the long-lived services of `sage serve` under a
suture v4 supervisor tree.

# Overview

Services are grouped into layers so a failure in one is restarted without
touching the others:

	RootSupervisor ("sage")
	├── EvaluationSupervisor ("evaluation-layer")
	│   └── EvaluationService (if EVAL_SCHEDULE_ENABLED)
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── ConfigWatchService (when started with --config)
	│   └── CachePruneService (when server.snapshot_ttl > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff once FailureThreshold failures
accumulate faster than FailureDecay forgives them. A service returning
suture.ErrDoNotRestart is left stopped.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddEvaluationService(evalSvc)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Supervisor events (start, failure, backoff, stop timeout) are logged
through sutureslog, which logging.NewSlogLogger bridges to zerolog.

# Testing

MockService is a controllable suture.Service for tree tests:

	svc := supervisor.NewMockService("flaky")
	svc.SetFailCount(2) // fail twice, then run until canceled
*/
package supervisor
