// Package mediatypes classifies files discovered during library scans.
//
// Supported video containers: mp4, webm, mov, avi, mkv, m4v. Files with
// any other extension are ignored by the scanner.
package mediatypes
