// Package rollcall counts and searches records in bulk CSV or JSON-lines
// exports.
//
// Quick start:
//
//	rc, err := rollcall.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rep, _ := rc.Count(ctx, "schools.csv")
//	fmt.Println(rep.Normalized, rep.Tables[0].Top)
//
// Without options, Rollcall reads CSV against the built-in schools schema
// and counts schools by state, city, locale, urban locale and operating
// status. A Rollcall instance is safe for concurrent use; every Count and
// Searcher call opens its own pass over the file.
package rollcall
