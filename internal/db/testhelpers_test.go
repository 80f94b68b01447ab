package db

import "time"

const defaultTestTimeout = 2 * time.Minute
