package rollcall_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/fieldhouse/rollcall/pkg/rollcall"
)

func Example() {
	f, err := os.CreateTemp("", "schools-*.csv")
	if err != nil {
		log.Fatal(err)
	}
	defer os.Remove(f.Name())

	rows := "school_id,name,city,state\n" +
		"100001,Hoover Elementary,Dubuque,IA\n" +
		"100002,Lincoln High,Waterloo,IA\n" +
		"100003,Washington Academy,Winona,MN\n"
	if _, err := f.WriteString(rows); err != nil {
		log.Fatal(err)
	}
	f.Close()

	rc, err := rollcall.New(rollcall.WithMetrics("by_state:count:state"))
	if err != nil {
		log.Fatal(err)
	}

	rep, err := rc.Count(context.Background(), f.Name())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("schools: %d\n", rep.Normalized)
	for _, row := range rep.Tables[0].Rows {
		fmt.Printf("%s: %.0f\n", row.Key, row.Value)
	}
	// Output:
	// schools: 3
	// IA: 2
	// MN: 1
}
