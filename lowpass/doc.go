// Package lowpass implements a windowed, FFT-based brick-wall lowpass with
// overlap-add reconstruction over a fully materialised mono signal.
//
// A run frames the signal into fixed-size windows (Frame), filters each
// window in the frequency domain (Filter), and joins the windows either by
// cross-fading a half-window shifted second pass (OverlapAdd) or by an
// exponential moving average (Smooth). Pipeline ties the stages together.
package lowpass
