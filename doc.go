/*
Package rarchive parses RAR-family archive headers, both the legacy format
(versions 1.5 through 4.x) and the modern format (5.0+), and exposes the
logical structure of an archive (top-level flags, file entries, end-of-archive
marker) without decompressing any payload.

The package never reads a payload's compressed bytes itself; it records the
absolute offset and declared size of each data region so a caller can seek to
it later. RAR's modern compression algorithm is proprietary and is not
implemented here.

A companion package, github.com/javi11/rarchive/zip, reads the PKZIP central
directory using the same buffered reader abstraction and can decompress
Stored/Deflate entries.

Information sources:

- https://www.rarlab.com/technote.htm

- https://en.wikipedia.org/wiki/RAR_(file_format)
*/
package rarchive
