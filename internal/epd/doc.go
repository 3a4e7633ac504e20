// Package epd drives the Waveshare 7.5" (B) tri-color e-paper panel.
//
// The driver keeps a packed framebuffer of the whole panel (four pixels per
// byte, two bits each), reduces arbitrary colors to black, white or red with
// a 3x3 ordered dither, and streams the buffer to the controller on Flush.
//
// The bus is abstracted by the Bus interface. SPIBus talks to real hardware
// through periph.io; MemBus records traffic in memory.
//
// Product page:
//
// https://www.waveshare.com/wiki/7.5inch_e-Paper_HAT_(B)
package epd
