package main

import "strconv"

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
