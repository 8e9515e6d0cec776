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

// Package nativebind projects logical configuration properties onto an
// underlying native view handle. Accessors are synthesized from declarative
// per-property descriptors; what the handle's type offers for a property is
// resolved once and cached, not re-branched on every get/set.
package nativebind

import (
	"reflect"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog/log"
)

// Converter translates between the native representation and the logical one.
type Converter struct {
	FromNative func(value any) any
	ToNative   func(value any) any
}

// PropertyDescriptor declares one bound property. Getter and setter names
// default to get/set plus the capitalized key unless the platform overrides
// them.
type PropertyDescriptor struct {
	Key        string
	GetterName string
	SetterName string
	Default    any
	Converter  *Converter
}

// Target is the object the synthesized accessors are bound to: a native view
// handle plus the logical property bag.
type Target interface {
	Native() any
	Options() map[string]any
	InvalidateStyle()
}

type Getter func(target Target) any

type Setter func(target Target, value any)

// capability records what the handle type offers for one property.
type capability struct {
	getterMethod int
	setterMethod int
	fieldIndex   []int
}

type capabilityKey struct {
	nativeType reflect.Type
	key        string
	getterName string
	setterName string
}

var capabilities = xsync.NewMapOf[capabilityKey, capability]()

// CreateGetter synthesizes the read accessor: native getter method when the
// handle offers one, otherwise the options bag, otherwise the declared
// default. The converter's FromNative applies to the result.
func CreateGetter(desc PropertyDescriptor) Getter {
	return func(target Target) any {
		if native := target.Native(); native != nil {
			c := resolve(reflect.TypeOf(native), desc)
			if c.getterMethod >= 0 {
				out := reflect.ValueOf(native).Method(c.getterMethod).Call(nil)
				if len(out) > 0 {
					return convertFrom(desc, out[0].Interface())
				}
			}
		}
		if value, ok := target.Options()[desc.Key]; ok {
			return convertFrom(desc, value)
		}
		return convertFrom(desc, desc.Default)
	}
}

// CreateSetter synthesizes the write accessor. The logical options bag is
// always updated; the native side is best effort: setter method when present,
// else direct assignment to the same-named field plus a style invalidation.
func CreateSetter(desc PropertyDescriptor) Setter {
	return func(target Target, value any) {
		target.Options()[desc.Key] = value
		native := target.Native()
		if native == nil {
			return
		}
		defer func() {
			if rec := recover(); rec != nil {
				log.Warn().Str("method", "nativebind.setter").Str("key", desc.Key).Msgf("couldn't apply native value: %v", rec)
			}
		}()
		converted := convertTo(desc, value)
		c := resolve(reflect.TypeOf(native), desc)
		if c.setterMethod >= 0 {
			method := reflect.ValueOf(native).Method(c.setterMethod)
			method.Call([]reflect.Value{argumentValue(method.Type().In(0), converted)})
			return
		}
		if c.fieldIndex != nil {
			field := reflect.ValueOf(native).Elem().FieldByIndex(c.fieldIndex)
			if field.CanSet() {
				field.Set(argumentValue(field.Type(), converted))
			}
			target.InvalidateStyle()
		}
	}
}

func resolve(nativeType reflect.Type, desc PropertyDescriptor) capability {
	key := capabilityKey{
		nativeType: nativeType,
		key:        desc.Key,
		getterName: desc.GetterName,
		setterName: desc.SetterName,
	}
	c, _ := capabilities.LoadOrCompute(key, func() capability {
		return newCapability(nativeType, desc)
	})
	return c
}

func newCapability(nativeType reflect.Type, desc PropertyDescriptor) capability {
	c := capability{getterMethod: -1, setterMethod: -1}
	if m, ok := nativeType.MethodByName(accessorName("Get", desc.Key, desc.GetterName)); ok {
		c.getterMethod = m.Index
	}
	if m, ok := nativeType.MethodByName(accessorName("Set", desc.Key, desc.SetterName)); ok {
		c.setterMethod = m.Index
	}
	structType := nativeType
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() == reflect.Struct {
		if f, ok := structType.FieldByName(capitalize(desc.Key)); ok {
			c.fieldIndex = f.Index
		}
	}
	return c
}

func accessorName(prefix string, key string, override string) string {
	if override != "" {
		return override
	}
	return prefix + capitalize(key)
}

func capitalize(key string) string {
	if key == "" {
		return key
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

func convertFrom(desc PropertyDescriptor, value any) any {
	if desc.Converter != nil && desc.Converter.FromNative != nil {
		return desc.Converter.FromNative(value)
	}
	return value
}

func convertTo(desc PropertyDescriptor, value any) any {
	if desc.Converter != nil && desc.Converter.ToNative != nil {
		return desc.Converter.ToNative(value)
	}
	return value
}

// argumentValue produces a reflect value usable as a call argument or field
// assignment, substituting the type's zero value for nil.
func argumentValue(t reflect.Type, value any) reflect.Value {
	if value == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(value)
}
