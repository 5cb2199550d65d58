// Package pipeline discovers USDZ archives, patches each one in turn, and
// reports a batch summary.
//
// Types:
//   - Result / DocumentResult: outcome of one archive and its scene documents
//   - RunStats: batch counters, byte totals and every Result in order
//   - Confirmer: callback asked once before any archive is touched
//
// Functions:
//   - Run(ctx, cfg, log, confirm): discover -> confirm -> fix each -> summary
//   - Discover(cfg): sorted archive paths under cfg.RootDir
//   - FixArchive(cfg, log, path): extract -> patch -> backup -> repack
//
// Archives are processed strictly one at a time in discovery order. A
// failing archive is logged and counted; it never stops the batch.
package pipeline
