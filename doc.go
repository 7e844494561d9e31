// Package sqlnames extracts named statements from .sql files. Each statement is introduced by a "-- name: <identifier>" comment line and runs until the next annotation or the end of the text. There is no loading, binding or execution here, just a lookup table you hand to database/sql yourself.
package sqlnames
