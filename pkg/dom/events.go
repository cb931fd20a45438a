package dom

import (
	"github.com/funa-dev/funa/pkg/host"
)

// AddEventListener implements host.Node.
func (n *Node) AddEventListener(event string, fn host.Listener) {
	if fn == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]host.Listener)
	}
	n.listeners[event] = append(n.listeners[event], fn)
}

// Dispatch delivers ev to n and then to each ancestor. Listeners on one
// node run in registration order. The first listener error stops dispatch
// and is returned.
func (n *Node) Dispatch(ev host.Event) error {
	if ev.Target == nil {
		ev.Target = n
	}
	for cur := n; cur != nil; cur = cur.parent {
		listeners := append([]host.Listener(nil), cur.listeners[ev.Type]...)
		for _, fn := range listeners {
			if err := fn(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// DispatchType is shorthand for dispatching an event with only a type.
func (n *Node) DispatchType(event string) error {
	return n.Dispatch(host.Event{Type: event, Target: n})
}

// Click simulates a user click. Checkbox inputs toggle and radio inputs
// become checked (unchecking radios of the same name under the same root);
// both then receive "click" and "change". Other elements receive "click".
func (n *Node) Click() error {
	typ, _ := n.Attribute("type")
	toggles := n.tag == "input" && (typ == "checkbox" || typ == "radio")
	if toggles {
		if typ == "checkbox" {
			n.SetProperty("checked", !n.Property("checked").(bool))
		} else {
			n.checkRadio()
		}
	}
	if err := n.DispatchType("click"); err != nil {
		return err
	}
	if toggles {
		return n.DispatchType("change")
	}
	return nil
}

// SetChecked sets the checked property. Checking a radio input unchecks
// the radios of the same name under the same root.
func (n *Node) SetChecked(checked bool) {
	if typ, _ := n.Attribute("type"); checked && n.tag == "input" && typ == "radio" {
		n.checkRadio()
		return
	}
	n.SetProperty("checked", checked)
}

func (n *Node) checkRadio() {
	name, _ := n.Attribute("name")
	if name != "" {
		root := n
		for root.parent != nil {
			root = root.parent
		}
		root.walk(func(c *Node) bool {
			if c != n && c.tag == "input" {
				typ, _ := c.Attribute("type")
				other, _ := c.Attribute("name")
				if typ == "radio" && other == name {
					c.SetProperty("checked", false)
				}
			}
			return true
		})
	}
	n.SetProperty("checked", true)
}
