// Package server runs the preview HTTP server with graceful shutdown.
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	// blocks until ctx is cancelled
//	return srv.Run(ctx, handler)
//
// Listening happens before Run blocks, so a port of 0 works: wait on Ready
// and read the bound address from Addr.
package server
