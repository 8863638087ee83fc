// peripheral_uart.go - port 1 UART status

package main

// uartStatusIn always reports the line as ready to transmit and receive;
// the Triton's monitor ROM polls port 1 before every serial access but the
// emulated serial path never blocks, so the status byte is fixed.
func uartStatusIn(_ *Machine) byte { return 0x11 }
