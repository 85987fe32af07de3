// This file is part of macrtc.
//
// macrtc is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// macrtc is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with macrtc.  If not, see <https://www.gnu.org/licenses/>.

// Package curated is a helper package for the plain Go language error type.
// Curated errors are created with Errorf() and tested with Is() and Has().
// The pattern used to create the error is what is tested against, so
// patterns that callers need to check for should be exported as constants by
// the package that creates them.
//
// For example:
//
//	const WrongSize = "image: wrong size (%d bytes)"
//
//	if curated.Is(err, image.WrongSize) {
//		...
//	}
//
// Has() performs the same test but looks through the values the error was
// created with, so it will find the pattern anywhere in a chain of wrapped
// curated errors.
//
// When formatted, adjacent duplicate parts of the message are removed, so
// that "image: image: file not found" becomes "image: file not found".
package curated
