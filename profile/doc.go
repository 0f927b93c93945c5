// Package profile loads named resilience profiles from YAML and builds
// ready-to-use components from them.
//
// A profile file declares one profile per protected dependency:
//
//	profiles:
//	  records-api:
//	    retry:
//	      max_attempts: 5
//	      base_delay: 100ms
//	      jitter: true
//	    circuit:
//	      failure_threshold: 5
//	      recovery_timeout: 30s
//	    rate_limit:
//	      max_requests: 100
//	      window: 1m
//	    timeout: 5s
//
// Values may reference environment variables with ${VAR}; a referenced
// variable that is not set fails the load. Use $$ for a literal dollar.
//
// # Building Components
//
//	file, err := profile.Load("profiles.yaml")
//	if err != nil {
//	    return err
//	}
//	p, err := file.Get("records-api")
//	if err != nil {
//	    return err
//	}
//	exec := p.Executor()
//	err = exec.Execute(ctx, callRecordsAPI)
//
// # Hot Reload
//
// Reloader watches the file and atomically swaps in valid updates:
//
//	r := profile.NewReloader("profiles.yaml", file, logger)
//	r.OnReload(func(f *profile.File) { rebuild(f) })
//	if err := r.Start(); err != nil {
//	    return err
//	}
//	defer r.Stop()
package profile
