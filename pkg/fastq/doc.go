// Package fastq implements a streaming FASTQ reader reproducing CD-HIT
// input handling: single-line records by default, transparent gzip
// decompression, and a skip-malformed-and-resynchronize error policy.
//
// Reader is the blocking realization and AsyncReader the suspending
// one; both drive the same record-assembly state machine, so error
// classification, resynchronization, and yielded records are identical
// for identical input bytes.
//
//	r, err := fastq.Open("reads.fastq.gz", fastq.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	for {
//	    rec, err := r.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    var perr *fastq.ParseError
//	    if errors.As(err, &perr) {
//	        // one malformed record was skipped
//	        continue
//	    }
//	    if err != nil {
//	        return err // fatal source failure
//	    }
//	    use(rec)
//	}
package fastq
