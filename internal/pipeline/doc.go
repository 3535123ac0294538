// Package pipeline runs one annotation job end to end: read and clean the
// subtitle file, extract candidates through the tokenizer worker, run the
// reasoning chains batch by batch, write annotations back and record the run.
//
// Batches are processed sequentially in segment order. A chain that exhausts
// its retries only affects its own batch; the remaining chains for that batch
// are skipped and the failure is reported in Result.BatchErrors. Tokenizer
// failures and cancellation abort the run.
package pipeline
