/*
 * © 2023 Bugtrail Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package nativebind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// nativeLabel plays the platform view handle: accessor methods for text, a
// bare field for opacity.
type nativeLabel struct {
	text    string
	Opacity float64
}

func (l *nativeLabel) GetText() string     { return l.text }
func (l *nativeLabel) SetText(text string) { l.text = text }

type view struct {
	native           any
	options          map[string]any
	styleInvalidated int
}

func (v *view) Native() any             { return v.native }
func (v *view) Options() map[string]any { return v.options }
func (v *view) InvalidateStyle()        { v.styleInvalidated++ }

func newView(native any) *view {
	return &view{native: native, options: map[string]any{}}
}

func TestGetter_PrefersNativeGetter(t *testing.T) {
	get := CreateGetter(PropertyDescriptor{Key: "text"})
	v := newView(&nativeLabel{text: "from native"})
	v.options["text"] = "from options"

	assert.Equal(t, "from native", get(v))
}

func TestGetter_FallsBackToOptionsThenDefault(t *testing.T) {
	get := CreateGetter(PropertyDescriptor{Key: "title", Default: "untitled"})
	v := newView(nil)

	assert.Equal(t, "untitled", get(v))

	v.options["title"] = "configured"
	assert.Equal(t, "configured", get(v))
}

func TestGetter_AppliesConverter(t *testing.T) {
	get := CreateGetter(PropertyDescriptor{
		Key: "text",
		Converter: &Converter{
			FromNative: func(value any) any { return "converted:" + value.(string) },
		},
	})
	v := newView(&nativeLabel{text: "raw"})

	assert.Equal(t, "converted:raw", get(v))
}

func TestGetter_PlatformOverrideName(t *testing.T) {
	get := CreateGetter(PropertyDescriptor{Key: "content", GetterName: "GetText"})
	v := newView(&nativeLabel{text: "via override"})

	assert.Equal(t, "via override", get(v))
}

func TestSetter_WithoutNativeOnlyUpdatesOptions(t *testing.T) {
	set := CreateSetter(PropertyDescriptor{Key: "text"})
	v := newView(nil)

	set(v, "value")

	assert.Equal(t, "value", v.options["text"])
	assert.Equal(t, 0, v.styleInvalidated)
}

func TestSetter_PrefersNativeSetter(t *testing.T) {
	set := CreateSetter(PropertyDescriptor{Key: "text"})
	label := &nativeLabel{}
	v := newView(label)

	set(v, "applied")

	assert.Equal(t, "applied", label.text)
	assert.Equal(t, "applied", v.options["text"])
	assert.Equal(t, 0, v.styleInvalidated)
}

func TestSetter_AssignsFieldAndInvalidatesStyle(t *testing.T) {
	set := CreateSetter(PropertyDescriptor{Key: "opacity"})
	label := &nativeLabel{}
	v := newView(label)

	set(v, 0.5)

	assert.Equal(t, 0.5, label.Opacity)
	assert.Equal(t, 1, v.styleInvalidated)
}

func TestSetter_AppliesToNativeConverter(t *testing.T) {
	set := CreateSetter(PropertyDescriptor{
		Key: "text",
		Converter: &Converter{
			ToNative: func(value any) any { return value.(string) + "!" },
		},
	})
	label := &nativeLabel{}
	v := newView(label)

	set(v, "loud")

	assert.Equal(t, "loud!", label.text)
	// the logical bag keeps the unconverted value
	assert.Equal(t, "loud", v.options["text"])
}

func TestSetter_TypeMismatchIsSwallowed(t *testing.T) {
	set := CreateSetter(PropertyDescriptor{Key: "text"})
	v := newView(&nativeLabel{})

	assert.NotPanics(t, func() { set(v, 42) })
	assert.Equal(t, 42, v.options["text"])
}
