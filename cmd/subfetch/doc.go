// Command subfetch downloads a talk video from a page URL, converts the
// page's embedded transcript into an SRT file, and muxes the subtitle into
// an MP4 container with ffmpeg.
package main
