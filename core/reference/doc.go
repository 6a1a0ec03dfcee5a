// Package reference reads the public provider reference dataset.
//
// A Scanner walks a CSV source once, front to back, handing out Chunks of a
// fixed number of records. Each record is decoded against a Schema into a Row
// whose fields remember whether their column existed at all. Extract turns a
// Row into a Profile, the denormalized view that is attached to a resolved
// target.
//
// Sources and sinks come in two flavours: local files, and objects in a
// bucket reached through core/storage ("s3://bucket/key").
//
// # Usage
//
//	src, _ := reference.ParseSource("npidata.csv", nil)
//	rc, _ := src.Open(ctx)
//	defer rc.Close()
//	sc, _ := reference.NewScanner(rc, reference.DefaultSchema(), 50000)
//	for {
//		chunk, err := sc.Next(ctx)
//		if errors.Is(err, io.EOF) {
//			break
//		}
//		...
//	}
package reference
