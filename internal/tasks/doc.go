// Package tasks runs bulk operations over the persona directory with real-time progress reporting.
//
// # Operations
//
//  1. [Engine.Import] / [Engine.ImportFile] : bulk create from a JSON file
//     - Every entry is checked with the entry form rules ([form.Submit]) first
//     - Invalid entries are reported and never sent
//     - Valid entries are created by a worker pool through [directory.Controller.Create],
//     throttled by a [rate.Limiter]
//
//  2. [Engine.Export] : write the (filtered) persona list to a file
//     - Loads the directory when the controller holds no list yet
//     - Renders with [formatter.Export]
//
// # Progress Reporting
//
// Both operations accept an optional channel of [ProgressUpdate]. Sends use select with
// default, so a slow or absent reader never stalls the operation.
package tasks
