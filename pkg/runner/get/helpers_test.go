package get

import "tableflip.dev/dailyreport/pkg/datekey"

func datekeyOf(s string) datekey.Key {
	k, err := datekey.Parse(s)
	if err != nil {
		panic(err)
	}
	return k
}
