// Package io reads and writes scene documents.
//
// # Formats
//
// Two serializations are supported, selected by file extension with
// [DetectFormat]:
//
//   - XML ([FormatXML], .rbxlx, .rbxmx, .xml): nested <Item> elements under a
//     <roblox> root, each with a <Properties> block whose child element names
//     are value types.
//   - JSON ([FormatJSON], .json): a flat list of instances plus the
//     referents of the top-level instances.
//
// XML example:
//
//	<roblox version="4">
//	  <Item class="Folder" referent="RBX0123...">
//	    <Properties>
//	      <string name="Name">Assets</string>
//	      <string name="Tag">x</string>
//	    </Properties>
//	  </Item>
//	</roblox>
//
// JSON example:
//
//	{
//	  "roots": ["RBX0123..."],
//	  "instances": [
//	    {
//	      "referent": "RBX0123...",
//	      "class": "Folder",
//	      "name": "Assets",
//	      "properties": {"Tag": {"type": "String", "value": "x"}},
//	      "children": []
//	    }
//	  ]
//	}
//
// # Import
//
// Decoding always produces a document with a synthetic "DataModel" root;
// the top-level instances of the file become its children. Use
// [ImportFile] to read from a path, or [Decode], [ReadXML] and [ReadJSON] to
// read from any io.Reader.
//
// # Export
//
// Encoding writes only the referents it is given (normally the root's
// children), never the root itself. Properties are written in lexicographic
// key order so output is reproducible. [ExportFile] writes to a temporary
// file next to the destination and renames it into place, so a failed
// export never leaves a partial file behind.
package io
